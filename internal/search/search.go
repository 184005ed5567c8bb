// internal/search/search.go

// Package search maintains the admin-facing application index in
// Elasticsearch. Indexing mirrors the Postgres record; Postgres stays the
// source of truth and indexing failures never fail the write they follow.
package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/goccy/go-json"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

const applicationIndex = "loan-applications"

type Indexer struct {
	es     *elasticsearch.Client
	logger logger.Logger
}

func NewIndexer(es *elasticsearch.Client, log logger.Logger) *Indexer {
	return &Indexer{
		es:     es,
		logger: log.WithFields(map[string]interface{}{"component": "search"}),
	}
}

// IndexApplication writes or overwrites the application document. Called on
// creation and on every status change; the document id is the application id
// so reindexing is idempotent.
func (i *Indexer) IndexApplication(ctx context.Context, app *models.LoanApplication) {
	if i.es == nil {
		return
	}

	body, err := json.Marshal(app)
	if err != nil {
		i.logger.Error("application marshal failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
		return
	}

	res, err := i.es.Index(
		applicationIndex,
		bytes.NewReader(body),
		i.es.Index.WithDocumentID(app.ID),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		i.logger.Error("application indexing failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Error("application indexing rejected", map[string]interface{}{
			"applicationId": app.ID,
			"status":        res.Status(),
		})
	}
}

// Query filters the admin search. Empty fields are not constrained.
type Query struct {
	Text   string // matches name, email and loan id
	Status string
	Type   string // loan type name
	Limit  int
}

// SearchApplications runs the admin query against the index.
func (i *Indexer) SearchApplications(ctx context.Context, q Query) ([]*models.LoanApplication, error) {
	if i.es == nil {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("search backend not configured"))
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	body, err := json.Marshal(buildQuery(q, limit))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(applicationIndex),
		i.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, errors.NewSearchQueryFailedError(
			fmt.Errorf("search returned %s: %s", res.Status(), strings.TrimSpace(string(raw))))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.LoanApplication `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	apps := make([]*models.LoanApplication, 0, len(parsed.Hits.Hits))
	for idx := range parsed.Hits.Hits {
		apps = append(apps, &parsed.Hits.Hits[idx].Source)
	}
	return apps, nil
}

func buildQuery(q Query, limit int) map[string]interface{} {
	must := []map[string]interface{}{}

	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": []string{"firstName", "lastName", "email", "loanId"},
			},
		})
	}
	if q.Status != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"status.keyword": q.Status},
		})
	}
	if q.Type != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"loanTypeName.keyword": q.Type},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	return map[string]interface{}{
		"size": limit,
		"sort": []map[string]interface{}{
			{"appliedAt": map[string]interface{}{"order": "desc", "unmapped_type": "keyword"}},
		},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
}
