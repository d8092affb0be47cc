package storage

import (
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

func TestDecodeKVEntity(t *testing.T) {
	data := []byte(`{"PartitionKey":"u1","RowKey":"tasks","Value":"[]","Timestamp":"2024-01-01T00:00:00Z"}`)
	v, ok, err := decodeKVEntity(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok || v != "[]" {
		t.Fatalf("unexpected value: %q ok=%v", v, ok)
	}
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key    string
		wantPK string
		wantRK string
	}{
		{key: "tasks", wantPK: defaultPartition, wantRK: "tasks"},
		{key: "user-1:tasks", wantPK: "user-1", wantRK: "tasks"},
		{key: "auth0|abc:light-theme", wantPK: "auth0|abc", wantRK: "light-theme"},
		{key: ":tasks", wantPK: defaultPartition, wantRK: ":tasks"},
	}
	for _, tt := range tests {
		pk, rk := splitKey(tt.key)
		if pk != tt.wantPK || rk != tt.wantRK {
			t.Fatalf("splitKey(%q) = %q/%q, want %q/%q", tt.key, pk, rk, tt.wantPK, tt.wantRK)
		}
	}
}

func TestIsStatus(t *testing.T) {
	notFound := &azcore.ResponseError{StatusCode: 404}
	if !isStatus(notFound, 404) {
		t.Fatal("expected 404 to match")
	}
	wrapped := errors.Join(errors.New("ctx"), notFound)
	if !isStatus(wrapped, 404) {
		t.Fatal("expected wrapped 404 to match")
	}
	if isStatus(errors.New("boom"), 404) {
		t.Fatal("plain errors must not match")
	}
}
