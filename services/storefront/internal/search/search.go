package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
)

// NewClient connects and checks the cluster answers before returning.
func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

// Document is what gets indexed per product; _id is the product id.
type Document struct {
	ProductID    string   `json:"product_id"`
	Model        string   `json:"model"`
	Category     string   `json:"category"`
	CurrentColor string   `json:"current_color"`
	Colors       []string `json:"colors"`
	Memory       []string `json:"memory"`
	Price        int64    `json:"price"`
}

type Index struct {
	es    *elasticsearch.Client
	index string
}

func NewIndex(es *elasticsearch.Client, index string) *Index {
	return &Index{es: es, index: index}
}

func (i *Index) IndexProducts(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		if err := enc.Encode(map[string]any{"index": map[string]any{"_id": d.ProductID}}); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
	}

	res, err := i.es.Bulk(&buf,
		i.es.Bulk.WithContext(ctx),
		i.es.Bulk.WithIndex(i.index),
		i.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.Status())
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk index: some documents were rejected")
	}
	return nil
}

// Search returns the total hit count and the matching product ids in rank order.
func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, []string{}, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"model^2", "category", "current_color", "colors"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"product_id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					ProductID string `json:"product_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id := h.Source.ProductID
		if id == "" {
			id = h.ID
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}
