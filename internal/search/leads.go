// Package search maintains the Elasticsearch lead index. The index is
// written through at lead write time; querying it returns lead IDs that the
// caller hydrates from Postgres. When no node is configured the disabled
// index is used and callers fall back to SQL matching.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"go-crm-api/internal/model"
)

// ErrDisabled is returned by the disabled index so callers can fall back
var ErrDisabled = errors.New("search index not configured")

const defaultIndex = "crm-leads"

type LeadIndex interface {
	Index(ctx context.Context, lead *model.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
}

// leadDocument is the shape stored in the index
type leadDocument struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Source   string `json:"source"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

type esLeadIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewFromEnv builds the index from ELASTICSEARCH_URL (comma separated
// addresses). An empty value yields the disabled index.
func NewFromEnv() (LeadIndex, error) {
	raw := os.Getenv("ELASTICSEARCH_URL")
	if raw == "" {
		return Disabled(), nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: strings.Split(raw, ","),
		Username:  os.Getenv("ELASTICSEARCH_USER"),
		Password:  os.Getenv("ELASTICSEARCH_PASSWORD"),
	})
	if err != nil {
		return nil, err
	}

	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = defaultIndex
	}
	return &esLeadIndex{client: client, index: index}, nil
}

func (s *esLeadIndex) Index(ctx context.Context, lead *model.Lead) error {
	doc := leadDocument{
		FullName: lead.FullName,
		Email:    lead.Email,
		Phone:    lead.Phone,
		Company:  lead.Company,
		Source:   lead.Source,
		Status:   string(lead.Status),
		Notes:    lead.Notes,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: lead.ID.String(),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index lead %s: %s", lead.ID, res.Status())
	}
	return nil
}

func (s *esLeadIndex) Delete(ctx context.Context, id uuid.UUID) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id.String()}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// Deleting a document that was never indexed is fine
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete lead %s: %s", id, res.Status())
	}
	return nil
}

func (s *esLeadIndex) Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	var body bytes.Buffer
	q := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"full_name^2", "email", "phone", "company", "notes"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&body).Encode(q); err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search leads: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Disabled returns an index whose operations report ErrDisabled
func Disabled() LeadIndex {
	return disabledIndex{}
}

type disabledIndex struct{}

func (disabledIndex) Index(context.Context, *model.Lead) error { return ErrDisabled }
func (disabledIndex) Delete(context.Context, uuid.UUID) error  { return ErrDisabled }
func (disabledIndex) Search(context.Context, string, int) ([]uuid.UUID, error) {
	return nil, ErrDisabled
}
