package posts

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jeremyjsx/blogapi/internal/storage"
	"gopkg.in/yaml.v3"
)

const markdownContentType = "text/markdown; charset=utf-8"

// Mirror keeps a Markdown copy of every post in object storage under
// posts/<slug>.md. A nil *Mirror does nothing.
type Mirror struct {
	store storage.Storage
}

func NewMirror(store storage.Storage) *Mirror {
	return &Mirror{store: store}
}

func MirrorKey(slug string) string {
	return "posts/" + slug + ".md"
}

type frontMatter struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	Slug       string    `yaml:"slug"`
	Excerpt    string    `yaml:"excerpt"`
	Author     string    `yaml:"author"`
	Categories []string  `yaml:"categories"`
	CreatedAt  time.Time `yaml:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at"`
}

// RenderMarkdown returns p as a Markdown document with YAML front matter.
func RenderMarkdown(p *Post) ([]byte, error) {
	fm := frontMatter{
		ID:         p.ID.String(),
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Author:     p.User.Name,
		Categories: make([]string, 0, len(p.Categories)),
		CreatedAt:  p.CreatedAt.UTC(),
		UpdatedAt:  p.UpdatedAt.UTC(),
	}
	for _, c := range p.Categories {
		fm.Categories = append(fm.Categories, c.Name)
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Content)
	if len(p.Content) > 0 && p.Content[len(p.Content)-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (m *Mirror) Put(ctx context.Context, p *Post) error {
	if m == nil || m.store == nil {
		return nil
	}
	doc, err := RenderMarkdown(p)
	if err != nil {
		return err
	}
	if err := m.store.Upload(ctx, MirrorKey(p.Slug), bytes.NewReader(doc), markdownContentType); err != nil {
		return fmt.Errorf("upload to s3: %w", err)
	}
	return nil
}

func (m *Mirror) Remove(ctx context.Context, slug string) error {
	if m == nil || m.store == nil {
		return nil
	}
	if err := m.store.Delete(ctx, MirrorKey(slug)); err != nil {
		return fmt.Errorf("delete from s3: %w", err)
	}
	return nil
}
