package importhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportString(t *testing.T) {
	tests := []struct {
		name     string
		input    ImportString
		rendered string
		group    ImportGroup
	}{
		{"stdlib", NewImportString("typing"), "typing", GroupStdlib},
		{"dotted stdlib", ParseImportString("collections.abc"), "collections.abc", GroupStdlib},
		{"third party", NewImportString("botocore", "client"), "botocore.client", GroupThirdParty},
		{"relative", LocalImportString("literals"), ".literals", GroupLocal},
		{"generated package", NewImportString("mypy_boto3_ec2", "type_defs"), "mypy_boto3_ec2.type_defs", GroupLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rendered, tt.input.Render())
			assert.Equal(t, tt.group, tt.input.Group())
		})
	}

	assert.True(t, Builtins.IsBuiltins())
	assert.True(t, ParseImportString(".literals").IsRelative())
	assert.True(t, ImportString{}.IsEmpty())
}

func TestImportRecord_Render(t *testing.T) {
	tests := []struct {
		name     string
		record   ImportRecord
		expected string
		local    string
	}{
		{"from import", NewImportRecord(Typing, "Any", ""), "from typing import Any", "Any"},
		{"aliased", NewImportRecord(Datetime, "datetime", "Datetime"), "from datetime import datetime as Datetime", "Datetime"},
		{"module", NewImportRecord(Sys, "", ""), "import sys", "sys"},
		{"module alias", NewImportRecord(NewImportString("boto3"), "", "b3"), "import boto3 as b3", "b3"},
		{"internal", NewInternalImportRecord("literals", "RegionName", ""), "from .literals import RegionName", "RegionName"},
		{"empty", ImportRecord{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Render())
			assert.Equal(t, tt.local, tt.record.LocalName())
		})
	}
}

func TestImportRecord_Fallback(t *testing.T) {
	record := NewFallbackImportRecord(Typing, "NotRequired", []int{3, 11}, TypingExtensions)

	assert.True(t, record.NeedsSysImport())
	assert.Equal(t,
		"if sys.version_info >= (3, 11):\n"+
			"    from typing import NotRequired\n"+
			"else:\n"+
			"    from typing_extensions import NotRequired",
		record.RenderBlock())
	assert.NotEqual(t, NewImportRecord(Typing, "NotRequired", "").Key(), record.Key())
}

func TestImportSet(t *testing.T) {
	set := NewImportSet(
		NewInternalImportRecord("literals", "RegionName", ""),
		NewImportRecord(Typing, "Dict", ""),
		NewImportRecord(Typing, "Any", ""),
		NewImportRecord(Typing, "Any", ""),
		NewImportRecord(Builtins, "str", ""),
		ImportRecord{},
		NewImportRecord(NewImportString("botocore", "client"), "BaseClient", ""),
		NewFallbackImportRecord(Typing, "NotRequired", []int{3, 11}, TypingExtensions),
	)

	assert.Equal(t, 5, set.Len())
	assert.Equal(t,
		"import sys\n"+
			"from typing import Any\n"+
			"from typing import Dict\n"+
			"\n"+
			"from botocore.client import BaseClient\n"+
			"\n"+
			"from .literals import RegionName\n"+
			"\n"+
			"if sys.version_info >= (3, 11):\n"+
			"    from typing import NotRequired\n"+
			"else:\n"+
			"    from typing_extensions import NotRequired",
		set.Render())
}

func TestImportSet_Merge(t *testing.T) {
	a := NewImportSet(NewImportRecord(Typing, "Any", ""))
	b := NewImportSet(NewImportRecord(Typing, "Any", ""), NewImportRecord(Typing, "List", ""))

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Contains(NewImportRecord(Typing, "List", "")))
}
