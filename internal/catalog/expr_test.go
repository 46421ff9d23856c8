package catalog_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/histseries/internal/catalog"
	"github.com/tejusbharadwaj/histseries/internal/source"
)

func TestParseNames(t *testing.T) {
	e, err := catalog.Parse(`(FIC101.PV + 'FIC-102.PV') * 3.6 - FIC101.PV + "Reactor1|Temperature"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"FIC101.PV", "FIC-102.PV", "Reactor1|Temperature"}, e.Names())
}

func TestParseSignedExponent(t *testing.T) {
	for _, src := range []string{"A * 1e-3", "A * 2.5E+3", "A*1e-3-B", "A * .5e-1"} {
		e, err := catalog.Parse(src)
		require.NoError(t, err, src)
		assert.NotContains(t, e.Names(), "1e", src)
		assert.Subset(t, []string{"A", "B"}, e.Names(), src)
	}

	// a tag that merely looks like an exponent stays a name
	e, err := catalog.Parse("A - e-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "e"}, e.Names())
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"FIC101.PV +",
		"(FIC101.PV",
		"FIC101.PV)",
		"'unterminated",
		"''",
		"FIC101.PV ^ 2",
		"FIC101.PV FIC102.PV",
	} {
		_, err := catalog.Parse(src)
		assert.ErrorIs(t, err, catalog.ErrInvalidExpression, src)
	}
}

func TestEvaluate(t *testing.T) {
	repo, cat, _ := newCatalog(t, 8)
	ctrl := gomock.NewController(t)
	repo.EXPECT().LookupPoint(gomock.Any(), "A").Return(mockPoint(ctrl, "A", 10), nil).Times(1)
	repo.EXPECT().LookupPoint(gomock.Any(), "B").Return(mockPoint(ctrl, "B", 4), nil).Times(1)

	tests := []struct {
		expr string
		want float64
	}{
		{"A", 10},
		{"A + B", 14},
		{"A - B * 2", 2},
		{"(A - B) * 2", 12},
		{"100 - A", 90},
		{"1 / B", 0.25},
		{"-A", -10},
		{"-(A - 2 * B)", -2},
		{"A // 3", 3},
		{"-7 // B", -2},
		{"A % -3", -2},
		{"A * 5e-1", 5},
		{"A * 1e+1 - B", 96},
	}
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := cat.Evaluate(ctx, tt.expr)
			require.NoError(t, err)
			v, err := s.CurrentValue(ctx)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v, 1e-12)
		})
	}
}

func TestEvaluateKeepsLeftIdentity(t *testing.T) {
	repo, cat, _ := newCatalog(t, 8)
	ctrl := gomock.NewController(t)
	repo.EXPECT().LookupPoint(gomock.Any(), "A").Return(mockPoint(ctrl, "A", 10), nil)

	s, err := cat.Evaluate(context.Background(), "5 * A")
	require.NoError(t, err)
	assert.Equal(t, "A", s.Name())
	assert.Equal(t, "m3/h", s.UnitsOfMeasurement())
}

func TestEvaluateConstant(t *testing.T) {
	_, cat, _ := newCatalog(t, 8)
	_, err := cat.Evaluate(context.Background(), "(1 + 2) * 3")
	assert.ErrorIs(t, err, catalog.ErrConstantExpression)
}

func TestEvaluateUnknownName(t *testing.T) {
	repo, cat, _ := newCatalog(t, 8)
	repo.EXPECT().LookupPoint(gomock.Any(), "nope").Return(nil, source.ErrNotFound)

	_, err := cat.Evaluate(context.Background(), "nope * 2")
	assert.ErrorIs(t, err, source.ErrNotFound)
	assert.Contains(t, err.Error(), `"nope"`)
}
