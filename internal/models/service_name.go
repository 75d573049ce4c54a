package models

import (
	"slices"
	"strings"

	"github.com/toyz/pystubgen/internal/utils"
)

// essentialServiceNames are included in the master package by default
var essentialServiceNames = []string{
	"ec2",
	"rds",
	"s3",
	"lambda",
	"sqs",
	"cloudformation",
	"dynamodb",
}

// ServiceName identifies one botocore service
type ServiceName struct {
	Name              string // botocore name, e.g. "ec2" or "resource-groups"
	ClassName         string // client class prefix, e.g. "EC2"
	OverrideBoto3Name string // set when boto3 exposes the service under another name
}

// NewServiceName creates a service name, deriving the class name when empty
func NewServiceName(name, className string) *ServiceName {
	if className == "" {
		className = utils.ToClassName(name)
	}
	return &ServiceName{Name: name, ClassName: className}
}

// UnderscoreName is the python-safe form of Name
func (s *ServiceName) UnderscoreName() string {
	return strings.ReplaceAll(s.Name, "-", "_")
}

// Boto3Name is the name passed to boto3.client()
func (s *ServiceName) Boto3Name() string {
	if s.OverrideBoto3Name != "" {
		return s.OverrideBoto3Name
	}
	return s.Name
}

// ImportName is the module attribute name; keywords get a trailing underscore
func (s *ServiceName) ImportName() string {
	name := s.UnderscoreName()
	if utils.IsPythonKeyword(name) {
		return name + "_"
	}
	return name
}

// IsEssential reports whether the service belongs to the essential set
func (s *ServiceName) IsEssential() bool {
	return slices.Contains(essentialServiceNames, s.Name)
}

func (s *ServiceName) String() string {
	return s.Name
}

// ServiceNameCatalog keeps one ServiceName instance per botocore name
type ServiceNameCatalog struct {
	items map[string]*ServiceName
	order []string
}

// Well-known services, shared by every catalog
var (
	EC2            = NewServiceName("ec2", "EC2")
	RDS            = NewServiceName("rds", "RDS")
	S3             = NewServiceName("s3", "S3")
	Lambda         = NewServiceName("lambda", "Lambda")
	SQS            = NewServiceName("sqs", "SQS")
	CloudFormation = NewServiceName("cloudformation", "CloudFormation")
	DynamoDB       = NewServiceName("dynamodb", "DynamoDB")
	Logs           = NewServiceName("logs", "CloudWatchLogs")
)

// NewServiceNameCatalog creates a catalog seeded with the well-known services
func NewServiceNameCatalog() *ServiceNameCatalog {
	c := &ServiceNameCatalog{items: make(map[string]*ServiceName)}
	for _, sn := range []*ServiceName{EC2, RDS, S3, Lambda, SQS, CloudFormation, DynamoDB, Logs} {
		c.items[sn.Name] = sn
		c.order = append(c.order, sn.Name)
	}
	return c
}

// Add registers a service, returning the existing entry when already known
func (c *ServiceNameCatalog) Add(name, className string) *ServiceName {
	if existing, ok := c.items[name]; ok {
		if className != "" && existing.ClassName == "" {
			existing.ClassName = className
		}
		return existing
	}
	sn := NewServiceName(name, className)
	c.items[name] = sn
	c.order = append(c.order, name)
	return sn
}

// Get returns a registered service
func (c *ServiceNameCatalog) Get(name string) (*ServiceName, bool) {
	sn, ok := c.items[name]
	return sn, ok
}

// All returns registered services in registration order
func (c *ServiceNameCatalog) All() []*ServiceName {
	result := make([]*ServiceName, 0, len(c.order))
	for _, name := range c.order {
		result = append(result, c.items[name])
	}
	return result
}

// FilterEssential keeps the essential services, preserving input order
func FilterEssential(serviceNames []*ServiceName) []*ServiceName {
	result := make([]*ServiceName, 0, len(serviceNames))
	for _, sn := range serviceNames {
		if sn.IsEssential() {
			result = append(result, sn)
		}
	}
	return result
}
