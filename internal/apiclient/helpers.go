package apiclient

import (
	"context"
	"fmt"
	"net/url"
)

func getResource[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var result T
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listResources always returns a non-nil slice on success.
func listResources[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var results []T
	if err := c.get(ctx, path, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

func createResource[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var result T
	if err := c.post(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func updateResource[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var result T
	if err := c.patch(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// resourcePath formats a path template, escaping every argument.
func resourcePath(format string, args ...string) string {
	escaped := make([]any, 0, len(args))
	for _, arg := range args {
		escaped = append(escaped, url.PathEscape(arg))
	}
	return fmt.Sprintf(format, escaped...)
}
