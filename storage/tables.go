package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

const defaultPartition = "board"

// Tables is a KV stored as entities of one Azure table. The namespace part of
// a key becomes the partition key.
type Tables struct {
	table *aztables.Client
}

// NewTables creates a Tables KV from a storage connection string.
func NewTables(connStr, tableName string) (*Tables, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	return &Tables{table: svc.NewClient(tableName)}, nil
}

type kvEntity struct {
	aztables.Entity
	Value string `json:"Value"`
}

// splitKey maps "<namespace>:<key>" to partition and row keys.
func splitKey(key string) (string, string) {
	if i := strings.LastIndex(key, ":"); i > 0 && i < len(key)-1 {
		return key[:i], key[i+1:]
	}
	return defaultPartition, key
}

func isStatus(err error, code int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == code
}

func (t *Tables) Get(ctx context.Context, key string) (string, bool, error) {
	pk, rk := splitKey(key)
	resp, err := t.table.GetEntity(ctx, pk, rk, nil)
	if err != nil {
		if isStatus(err, 404) {
			return "", false, nil
		}
		return "", false, err
	}
	return decodeKVEntity(resp.Value)
}

func decodeKVEntity(data []byte) (string, bool, error) {
	var ent kvEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return "", false, err
	}
	return ent.Value, true, nil
}

func (t *Tables) Set(ctx context.Context, key, value string) error {
	pk, rk := splitKey(key)
	payload, err := json.Marshal(kvEntity{
		Entity: aztables.Entity{PartitionKey: pk, RowKey: rk},
		Value:  value,
	})
	if err != nil {
		return err
	}
	_, err = t.table.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	return err
}

func (t *Tables) Delete(ctx context.Context, key string) error {
	pk, rk := splitKey(key)
	_, err := t.table.DeleteEntity(ctx, pk, rk, nil)
	if err != nil && !isStatus(err, 404) {
		return err
	}
	return nil
}
