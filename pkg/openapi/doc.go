// Package openapi lists the component schemas of OpenAPI 3 (and Swagger 2)
// documents and extracts them as schema nodes the declaration walker can
// consume. Documents are parsed with kin-openapi; the extracted nodes keep
// their original member order and $ref strings.
package openapi
