package structures

import (
	"iter"

	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// BaseClient is the botocore base class of every generated client
var BaseClient = ta.NewExternalImport(importhelpers.NewImportString("botocore", "client"), "BaseClient", "")

// Client is the generated service client class
type Client struct {
	Name        string
	ServiceName *models.ServiceName
	Methods     []*Method
	Docstring   string
}

// NewClient creates an empty client named after the service
func NewClient(serviceName *models.ServiceName) *Client {
	return &Client{
		Name:        serviceName.ClassName + "Client",
		ServiceName: serviceName,
	}
}

// Bases returns the rendered base classes
func (c *Client) Bases() []string {
	return []string{BaseClient.Render()}
}

// GetMethod finds a method by name
func (c *Client) GetMethod(name string) (*Method, bool) {
	for _, method := range c.Methods {
		if method.Name == name {
			return method, true
		}
	}
	return nil, false
}

// IterateTypes yields every annotation used by the client
func (c *Client) IterateTypes() iter.Seq[ta.FakeAnnotation] {
	return func(yield func(ta.FakeAnnotation) bool) {
		if !yield(BaseClient) {
			return
		}
		for _, method := range c.Methods {
			for item := range method.IterateTypes() {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// ImportRecords collects imports of the client module
func (c *Client) ImportRecords() *importhelpers.ImportSet {
	result := ta.GetImportRecords(BaseClient)
	for _, method := range c.Methods {
		result.Merge(method.ImportRecords())
	}
	return result
}
