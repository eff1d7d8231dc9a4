package codable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/model"
)

func TestTableIsTotal(t *testing.T) {
	strategy := New()
	require.NoError(t, strategy.table.Check())

	for _, shape := range model.Shapes() {
		_, ok := strategy.Fragments(model.Record{}, model.Property{Name: "value", Key: "value", Shape: shape, Type: model.Scalar(model.KindBool)})
		assert.Equal(t, shape != model.ShapeNull, ok, "shape %s", shape)
	}
}

func TestRequiredFragments(t *testing.T) {
	prop := model.Property{Name: "tags", Key: "tag_list", Type: model.ArrayOf(model.KindString), Shape: model.ShapeScalarArray, Required: true}

	got, ok := New().Fragments(model.Record{}, prop)
	require.True(t, ok)
	assert.Equal(t, emit.Fragments{
		Name:          "tags",
		Key:           `case tags = "tag_list"`,
		Declaration:   "public var tags: [String]",
		InitParameter: "tags: [String]",
		Initializer:   "self.tags = tags",
		Encoder:       "try container.encode(tags, forKey: .tags)",
		Decoder:       "tags = try values.decode([String].self, forKey: .tags)",
	}, got)
}

func TestOptionalFragments(t *testing.T) {
	prop := model.Property{Name: "owner", Key: "owner", Type: model.ModelRef("Owner"), Shape: model.ShapeSingleObject}

	got, ok := New().Fragments(model.Record{}, prop)
	require.True(t, ok)
	assert.True(t, got.Optional)
	assert.Equal(t, "public var owner: Owner?", got.Declaration)
	assert.Equal(t, "owner: Owner? = nil", got.InitParameter)
	assert.Equal(t, "try container.encodeIfPresent(owner, forKey: .owner)", got.Encoder)
	assert.Equal(t, "owner = try values.decodeIfPresent(Owner.self, forKey: .owner)", got.Decoder)
	assert.Empty(t, got.Representation)
}

func TestBaseElement(t *testing.T) {
	strategy := New()
	assert.Equal(t, "Codable", strategy.BaseElement(model.Record{}))
	assert.Equal(t, "Base", strategy.BaseElement(model.Record{SuperClass: "Base"}))
	_, coder := any(strategy).(emit.NSCoder)
	assert.False(t, coder)
}
