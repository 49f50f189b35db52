package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/piwi3910/LotLayout/internal/engine"
	"github.com/piwi3910/LotLayout/internal/export"
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/piwi3910/LotLayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedProject(t *testing.T) model.Project {
	t.Helper()
	proj := model.NewProject()
	proj.Name = "Depot"
	proj.Boundary = *testutil.SquareLot(20)
	layout := engine.New(proj.Dimensions).Plan(&proj.Boundary, model.Deg90)
	proj.Result = &layout
	return proj
}

func TestPublisher_PublishAllFormats(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockObjectStore()
	pub := NewPublisher(store, "/layouts/")

	proj := plannedProject(t)
	result, err := pub.Publish(ctx, proj)
	require.NoError(t, err)
	require.Len(t, result.Artifacts, len(AllFormats))

	for i, f := range AllFormats {
		a := result.Artifacts[i]
		assert.Equal(t, "layouts/"+result.ID+"/layout."+string(f), a.Key)
		assert.Equal(t, contentTypes[f], store.ContentTypes[a.Key])
		assert.Equal(t, len(store.Objects[a.Key]), a.Size)
		assert.Positive(t, a.Size)
	}

	keys, err := pub.List(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"layouts/" + result.ID + "/layout.json",
		"layouts/" + result.ID + "/layout.pdf",
		"layouts/" + result.ID + "/layout.png",
		"layouts/" + result.ID + "/layout.xlsx",
	}, keys)

	fetched, err := pub.Fetch(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.Name, fetched.Name)
	require.NotNil(t, fetched.Result)
	assert.Equal(t, proj.Result.Count(), fetched.Result.Count())
	assert.Equal(t, proj.Boundary.Segments(), fetched.Boundary.Segments())
}

func TestPublisher_SelectedFormats(t *testing.T) {
	store := testutil.NewMockObjectStore()
	pub := NewPublisher(store, "")

	result, err := pub.Publish(context.Background(), plannedProject(t), FormatPNG)
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, result.ID+"/layout.png", result.Artifacts[0].Key)
	assert.Len(t, store.Objects, 1)
}

func TestPublisher_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no layout", func(t *testing.T) {
		proj := plannedProject(t)
		proj.Result = nil
		_, err := NewPublisher(testutil.NewMockObjectStore(), "x").Publish(ctx, proj)
		assert.ErrorIs(t, err, export.ErrNoLayout)
	})

	t.Run("upload fails", func(t *testing.T) {
		store := testutil.NewMockObjectStore()
		store.PutErr = errors.New("access denied")
		_, err := NewPublisher(store, "x").Publish(ctx, plannedProject(t), FormatJSON)
		assert.ErrorIs(t, err, store.PutErr)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewPublisher(testutil.NewMockObjectStore(), "x").Publish(ctx, plannedProject(t), Format("svg"))
		assert.Error(t, err)
	})

	t.Run("missing publication", func(t *testing.T) {
		_, err := NewPublisher(testutil.NewMockObjectStore(), "x").Fetch(ctx, "nope")
		var nf *testutil.ObjectNotFoundError
		assert.ErrorAs(t, err, &nf)
		assert.True(t, IsNotFound(err))
	})

	t.Run("failing format uploads nothing", func(t *testing.T) {
		proj := model.NewProject()
		proj.Boundary = *model.BoundaryFromPoints(
			[]geometry.Point{geometry.Pt(0, 0), geometry.Pt(4200, 0), geometry.Pt(4200, 4200), geometry.Pt(0, 4200)},
			[]model.EdgeType{model.EdgeBorder, model.EdgeExit, model.EdgeEntrance, model.EdgeBorder},
		)
		empty := model.NewLayout(model.Deg90, proj.Dimensions.Footprint(model.Deg90), nil)
		proj.Result = &empty
		store := testutil.NewMockObjectStore()

		_, err := NewPublisher(store, "x").Publish(ctx, proj, FormatJSON, FormatPNG)
		assert.ErrorIs(t, err, export.ErrPreviewTooLarge)
		assert.Empty(t, store.Objects)
	})
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrNotFound, true},
		{"wrapped sentinel", fmt.Errorf("%w: layouts/a/layout.json", ErrNotFound), true},
		{"store error type", &testutil.ObjectNotFoundError{Key: "k"}, true},
		{"wrapped store error", fmt.Errorf("fetch: %w", &testutil.ObjectNotFoundError{Key: "k"}), true},
		{"transport failure", errors.New("connection reset"), false},
		{"permission failure", errors.New("AccessDenied"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("dwg")
	assert.Error(t, err)
}

func TestNewS3Adapter_RequiresBucket(t *testing.T) {
	_, err := NewS3Adapter(context.Background(), "eu-west-1", "")
	assert.ErrorIs(t, err, ErrNoBucket)
}
