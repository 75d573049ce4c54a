package models

import (
	"fmt"
	"strings"
)

// Product is one kind of artifact a run can generate
type Product string

const (
	ProductServices Product = "services" // one package per service
	ProductMaster   Product = "master"   // mypy-boto3 aggregate
	ProductStubs    Product = "stubs"    // boto3-stubs wrapper
	ProductFull     Product = "full"     // boto3-stubs-full, all services inside
)

// ParseProduct validates a config value
func ParseProduct(s string) (Product, error) {
	switch p := Product(strings.ToLower(strings.TrimSpace(s))); p {
	case ProductServices, ProductMaster, ProductStubs, ProductFull:
		return p, nil
	default:
		return "", fmt.Errorf("unknown product %q", s)
	}
}

// PackageData returns the naming family a product is published under
func (p Product) PackageData() *PackageData {
	switch p {
	case ProductMaster:
		return MypyBoto3PackageData
	case ProductFull:
		return Boto3StubsFullPackageData
	default:
		return Boto3StubsPackageData
	}
}
