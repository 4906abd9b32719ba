package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Record operations are package-level generic functions rather than methods
// because Go methods cannot carry their own type parameters.

// listEnvelope is the backend's wrapped list response. Some endpoints return
// the bare array instead; decodeRecords accepts both.
type listEnvelope[T any] struct {
	Value []T  `json:"value"`
	Count *int `json:"@odata.count"`
}

// GetRecords fetches all records of table matching the optional filter
// expression. A 404 means the backing table is absent under that name, which
// this backend treats as a legitimate empty result.
func GetRecords[T any](ctx context.Context, c *Client, table, filter, sessionToken string) ([]T, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("$filter", filter)
	}

	records, _, err := fetchRecords[T](ctx, c, table, query, sessionToken)
	return records, err
}

// GetRecordsPaged fetches one page of records plus the backend's total count
// for page metadata. When the backend omits the count, the page length is
// returned instead.
func GetRecordsPaged[T any](ctx context.Context, c *Client, table string, skip, top int, filter, sessionToken, orderBy string) ([]T, int, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("$filter", filter)
	}
	query.Set("$skip", strconv.Itoa(skip))
	query.Set("$top", strconv.Itoa(top))
	if orderBy != "" {
		query.Set("$orderby", orderBy)
	}
	query.Set("$count", "true")

	return fetchRecords[T](ctx, c, table, query, sessionToken)
}

func fetchRecords[T any](ctx context.Context, c *Client, table string, query url.Values, sessionToken string) ([]T, int, error) {
	resp, err := c.do(ctx, http.MethodGet, "/"+table, sessionToken, query, nil)
	if err != nil {
		return nil, 0, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, 0, fmt.Errorf("[GetRecords] failed to read response for %s: %w", table, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return []T{}, 0, nil
	}
	if !successStatus(resp.StatusCode) {
		return nil, 0, newStatusError(BackendRejectedErr, "get "+table, resp.StatusCode, string(body))
	}

	return decodeRecords[T](table, body)
}

// decodeRecords normalizes the two list shapes the backend produces - a
// wrapped envelope and a bare array - into one sequence.
func decodeRecords[T any](table string, body []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, 0, fmt.Errorf("[GetRecords] failed to decode %s array: %w", table, err)
		}
		return records, len(records), nil
	}

	var envelope listEnvelope[T]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, 0, fmt.Errorf("[GetRecords] failed to decode %s envelope: %w", table, err)
	}
	if envelope.Value == nil {
		envelope.Value = []T{}
	}
	total := len(envelope.Value)
	if envelope.Count != nil {
		total = *envelope.Count
	}
	return envelope.Value, total, nil
}

// GetRecord addresses one record by key. A 404 yields (nil, nil) - absence
// is not an error for point lookups.
func GetRecord[T any](ctx context.Context, c *Client, table, key, sessionToken string) (*T, error) {
	resp, err := c.do(ctx, http.MethodGet, recordPath(table, key), sessionToken, nil, nil)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("[GetRecord] failed to read response for %s: %w", table, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !successStatus(resp.StatusCode) {
		return nil, newStatusError(BackendRejectedErr, "get "+recordPath(table, key), resp.StatusCode, string(body))
	}

	var record T
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("[GetRecord] failed to decode %s record: %w", table, err)
	}
	return &record, nil
}

// CreateRecord inserts payload into table. The payload's field names go over
// the wire exactly as declared - the backend is casing sensitive.
func CreateRecord[T any](ctx context.Context, c *Client, table string, payload T, sessionToken string) (T, error) {
	var created T

	body, err := json.Marshal(payload)
	if err != nil {
		return created, fmt.Errorf("[CreateRecord] failed to encode %s payload: %w", table, err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/"+table, sessionToken, nil, bytes.NewReader(body))
	if err != nil {
		return created, err
	}
	respBody, err := readBody(resp)
	if err != nil {
		return created, fmt.Errorf("[CreateRecord] failed to read response for %s: %w", table, err)
	}

	if !successStatus(resp.StatusCode) {
		return created, newStatusError(BackendRejectedErr, "create "+table, resp.StatusCode, string(respBody))
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return created, nil
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return created, fmt.Errorf("[CreateRecord] failed to decode %s response: %w", table, err)
	}
	return created, nil
}

// UpdateRecord applies a partial update to the record addressed by key. A
// no-content reply yields the zero record rather than a decode failure.
func UpdateRecord[T any](ctx context.Context, c *Client, table, key string, payload any, sessionToken string) (T, error) {
	var updated T

	body, err := json.Marshal(payload)
	if err != nil {
		return updated, fmt.Errorf("[UpdateRecord] failed to encode %s payload: %w", table, err)
	}

	resp, err := c.do(ctx, http.MethodPatch, recordPath(table, key), sessionToken, nil, bytes.NewReader(body))
	if err != nil {
		return updated, err
	}
	respBody, err := readBody(resp)
	if err != nil {
		return updated, fmt.Errorf("[UpdateRecord] failed to read response for %s: %w", table, err)
	}

	if !successStatus(resp.StatusCode) {
		return updated, newStatusError(BackendRejectedErr, "update "+recordPath(table, key), resp.StatusCode, string(respBody))
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return updated, nil
	}
	if err := json.Unmarshal(respBody, &updated); err != nil {
		return updated, fmt.Errorf("[UpdateRecord] failed to decode %s response: %w", table, err)
	}
	return updated, nil
}

// DeleteRecord removes the record addressed by key.
func (c *Client) DeleteRecord(ctx context.Context, table, key, sessionToken string) error {
	resp, err := c.do(ctx, http.MethodDelete, recordPath(table, key), sessionToken, nil, nil)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("[Client DeleteRecord] failed to read response for %s: %w", table, err)
	}
	if !successStatus(resp.StatusCode) {
		return newStatusError(BackendRejectedErr, "delete "+recordPath(table, key), resp.StatusCode, string(body))
	}
	return nil
}

// recordPath embeds the key in the backend's parenthesized path grammar:
// Table('key'), with embedded single quotes doubled.
func recordPath(table, key string) string {
	return "/" + table + "('" + strings.ReplaceAll(key, "'", "''") + "')"
}
