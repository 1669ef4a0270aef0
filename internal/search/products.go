package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ordermanagement/internal/models"
)

// ProductDoc is the indexed shape of a product.
type ProductDoc struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func DocFromProduct(p models.Product) ProductDoc {
	return ProductDoc{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice}
}

// ProductIndex mirrors live products into one Elasticsearch index.
type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{ES: es, Index: index}
}

func (x *ProductIndex) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(DocFromProduct(p)); err != nil {
		return fmt.Errorf("encode product %d: %w", p.ID, err)
	}

	res, err := x.ES.Index(x.Index, &buf,
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index product %d: %s: %s", p.ID, res.Status(), body)
	}
	return nil
}

// DeleteProduct removes a document; a document that is already gone is not an error.
func (x *ProductIndex) DeleteProduct(ctx context.Context, id int64) error {
	res, err := x.ES.Delete(x.Index, strconv.FormatInt(id, 10),
		x.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("delete product %d: %s: %s", id, res.Status(), body)
	}
	return nil
}

func (x *ProductIndex) Search(ctx context.Context, query string, from, size int) (int64, []ProductDoc, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search products: %s: %s", res.Status(), raw)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ProductDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]ProductDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
