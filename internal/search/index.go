package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/transport"
)

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func (ix *Index) IndexTask(ctx context.Context, t domain.Task) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(transport.NewTaskView(t)); err != nil {
		return fmt.Errorf("search: encode task: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Name,
		&buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(t.ID),
	)
	if err != nil {
		return fmt.Errorf("search: index task: %w", err)
	}
	return checkResponse(res)
}

func (ix *Index) UpdateStatus(ctx context.Context, id, status string) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]any{
		"doc": map[string]any{"status": status},
	}); err != nil {
		return fmt.Errorf("search: encode update: %w", err)
	}

	res, err := ix.ES.Update(ix.Name, id, &buf, ix.ES.Update.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: update task: %w", err)
	}
	return checkResponse(res)
}

// Search runs a fuzzy match over name, description and category. Non-admin
// callers only see tasks they own or are assigned to.
func (ix *Index) Search(ctx context.Context, who domain.Identity, q string, from, size int) (int64, []transport.TaskView, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(who, q, from, size)); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), body)
	}

	return decodeHits(res.Body)
}

func buildQuery(who domain.Identity, q string, from, size int) map[string]any {
	boolQuery := map[string]any{
		"must": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	if !who.IsAdmin() {
		boolQuery["filter"] = map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"term": map[string]any{"userId.keyword": who.ID}},
					map[string]any{"term": map[string]any{"assignedTo.keyword": who.ID}},
				},
				"minimum_should_match": 1,
			},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"from":  from,
		"size":  size,
	}
}

func decodeHits(r io.Reader) (int64, []transport.TaskView, error) {
	var body struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source transport.TaskView `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	tasks := make([]transport.TaskView, len(body.Hits.Hits))
	for i, hit := range body.Hits.Hits {
		tasks[i] = hit.Source
	}
	return body.Hits.Total.Value, tasks, nil
}

func checkResponse(res *esapi.Response) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("search: %s: %s", res.Status(), body)
	}
	return nil
}
