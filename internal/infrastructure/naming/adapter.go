package naming

import "github.com/kirillkom/file-organizer/internal/core/domain"

// Generator is the injectable form of the package functions.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (Generator) Generate(workspace domain.Workspace, meta domain.Metadata, suggestedName string) string {
	return Generate(workspace, meta, suggestedName)
}

func (Generator) Sanitize(filename string) string {
	return Sanitize(filename)
}
