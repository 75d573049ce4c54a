package structures

import (
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
	"github.com/toyz/pystubgen/internal/utils"
)

var (
	// BotocorePaginator is the base class of generated paginators
	BotocorePaginator = ta.NewExternalImport(importhelpers.NewImportString("botocore", "paginate"), "Paginator", "")
	// BotocoreWaiter is the base class of generated waiters
	BotocoreWaiter = ta.NewExternalImport(importhelpers.NewImportString("botocore", "waiter"), "Waiter", "")
)

// Paginator is a generated paginator class for one operation
type Paginator struct {
	Name           string // e.g. DescribeInstancesPaginator
	OperationName  string // botocore operation, e.g. DescribeInstances
	ServiceName    *models.ServiceName
	PaginateMethod *Method
}

// PaginatorName is the snake_case name passed to get_paginator
func (p *Paginator) PaginatorName() string {
	return utils.ToSnakeCase(p.OperationName)
}

// ImportRecords collects imports of the paginator class
func (p *Paginator) ImportRecords() *importhelpers.ImportSet {
	result := ta.GetImportRecords(BotocorePaginator)
	if p.PaginateMethod != nil {
		result.Merge(p.PaginateMethod.ImportRecords())
	}
	return result
}

// Waiter is a generated waiter class
type Waiter struct {
	Name        string // e.g. InstanceRunningWaiter
	WaiterName  string // botocore waiter name, e.g. InstanceRunning
	ServiceName *models.ServiceName
	WaitMethod  *Method
}

// AttributeName is the snake_case name passed to get_waiter
func (w *Waiter) AttributeName() string {
	return utils.ToSnakeCase(w.WaiterName)
}

// ImportRecords collects imports of the waiter class
func (w *Waiter) ImportRecords() *importhelpers.ImportSet {
	result := ta.GetImportRecords(BotocoreWaiter)
	if w.WaitMethod != nil {
		result.Merge(w.WaitMethod.ImportRecords())
	}
	return result
}
