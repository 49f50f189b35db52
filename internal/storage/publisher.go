package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/piwi3910/LotLayout/internal/export"
	"github.com/piwi3910/LotLayout/internal/model"
)

// Format names one published artefact type.
type Format string

const (
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatPNG  Format = "png"
)

// AllFormats lists every format in publishing order.
var AllFormats = []Format{FormatJSON, FormatPDF, FormatXLSX, FormatPNG}

var contentTypes = map[Format]string{
	FormatJSON: "application/json",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPNG:  "image/png",
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("unknown format %q", s)
	}
	return f, nil
}

// Artifact describes one uploaded object.
type Artifact struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Publication groups the artefacts uploaded for one project.
type Publication struct {
	ID        string     `json:"id"`
	Artifacts []Artifact `json:"artifacts"`
}

// Publisher renders exports in memory and uploads them under a common prefix.
type Publisher struct {
	store  ObjectStore
	prefix string
}

// NewPublisher creates a Publisher writing below prefix.
func NewPublisher(store ObjectStore, prefix string) *Publisher {
	return &Publisher{store: store, prefix: strings.Trim(prefix, "/")}
}

// Publish uploads the requested formats of a planned project under a new
// publication ID. With no formats given, every format is published.
func (p *Publisher) Publish(ctx context.Context, proj model.Project, formats ...Format) (Publication, error) {
	if proj.Result == nil {
		return Publication{}, export.ErrNoLayout
	}
	if len(formats) == 0 {
		formats = AllFormats
	}

	// Render everything first so a failing format leaves nothing behind.
	rendered := make([][]byte, len(formats))
	for i, f := range formats {
		data, err := render(proj, f)
		if err != nil {
			return Publication{}, err
		}
		rendered[i] = data
	}

	pub := Publication{ID: uuid.New().String()}
	for i, f := range formats {
		key := p.key(pub.ID, "layout."+string(f))
		if err := p.store.PutObject(ctx, key, rendered[i], contentTypes[f]); err != nil {
			return pub, fmt.Errorf("failed to publish %s: %w", f, err)
		}
		pub.Artifacts = append(pub.Artifacts, Artifact{Key: key, ContentType: contentTypes[f], Size: len(rendered[i])})
	}
	return pub, nil
}

// List returns the keys of a publication in sorted order.
func (p *Publisher) List(ctx context.Context, id string) ([]string, error) {
	keys, err := p.store.ListObjects(ctx, p.key(id, ""))
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Fetch reads back the published project of a publication.
func (p *Publisher) Fetch(ctx context.Context, id string) (model.Project, error) {
	data, err := p.store.GetObject(ctx, p.key(id, "layout.json"))
	if err != nil {
		return model.Project{}, err
	}
	var proj model.Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse published project: %w", err)
	}
	return proj, nil
}

func (p *Publisher) key(id, name string) string {
	k := path.Join(p.prefix, id) + "/"
	return k + name
}

// render produces one export format in memory.
func render(proj model.Project, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJSON:
		err = json.NewEncoder(&buf).Encode(proj)
	case FormatPDF:
		err = export.WritePDF(&buf, proj)
	case FormatXLSX:
		err = export.WriteXLSX(&buf, proj)
	case FormatPNG:
		err = export.WritePNG(&buf, proj)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
