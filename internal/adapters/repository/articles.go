package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/c4hscore/internal/domain/model"
	"go.yaml.in/yaml/v3"
)

// SaveArticles writes reference articles for one rules body.
func (s *FileStore) SaveArticles(ctx context.Context, path, rules string, articles model.Articles) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.encode(fmt.Sprintf("%s %s Articles", headerPrefix, headerText(rules)), articles)
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}
	if err := writeFileAtomic(path, data, s.perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// OpenArticles reads reference articles. Entries without an id take their map key.
func (s *FileStore) OpenArticles(ctx context.Context, path string) (model.Articles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	articles := model.Articles{}
	if err := yaml.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for id, a := range articles {
		if a == nil {
			delete(articles, id)
			continue
		}
		if a.ID == "" {
			a.ID = id
		}
	}
	return articles, nil
}
