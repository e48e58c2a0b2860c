package variant

import (
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teeWithVariants() (domain.Product, []domain.Variant) {
	product := domain.Product{
		ID:           "p1",
		Name:         "Tee",
		Price:        100,
		FinalPrice:   floatPtr(80),
		Stock:        intPtr(3),
		Image:        "/tee.jpg",
		Images:       []string{"/tee-back.jpg", "/tee.jpg", ""},
		VariantGroup: "g1",
	}
	variants := []domain.Variant{
		{SKU: "A", Price: 90, Stock: 0, Image: "/tee-m.jpg", Options: []domain.Option{{Name: "size", Value: "M"}, {Name: "color", Value: "black"}}},
		{SKU: "B", Price: 95, Stock: 5, Options: []domain.Option{{Name: "size", Value: "L"}, {Name: "color", Value: "black"}}},
	}
	return product, variants
}

func TestNewSession_Defaults(t *testing.T) {
	product, variants := teeWithVariants()
	s := NewSession(product, variants)

	state := s.State()
	assert.Equal(t, Selection{"size": "M", "color": "black"}, state.Selection)
	require.NotNil(t, state.Resolved)
	assert.Equal(t, "A", state.Resolved.SKU)
	assert.Equal(t, 1, state.Quantity)
	assert.Equal(t, 90.0, state.Price)
	assert.Equal(t, 10, state.Discount)
	assert.Equal(t, OutOfStock, state.Availability)
	assert.Equal(t, "/tee-m.jpg", state.Image)
}

func TestSession_NoVariantsFallsBackToProduct(t *testing.T) {
	product := domain.Product{Price: 100, FinalPrice: floatPtr(80), Discount: floatPtr(20), Stock: intPtr(4)}
	s := NewSession(product, nil)

	state := s.State()
	assert.False(t, s.HasVariants())
	assert.Nil(t, state.Resolved)
	assert.Equal(t, 80.0, state.Price)
	assert.Equal(t, 20, state.Discount)
	assert.Equal(t, 4, state.Stock)
	assert.Equal(t, InStock, state.Availability)
}

func TestSession_OptionlessVariantsUseProductFields(t *testing.T) {
	product := domain.Product{Price: 100, Stock: intPtr(7), Image: "/base.jpg"}
	s := NewSession(product, []domain.Variant{{SKU: "X", Price: 5, Stock: 0, Image: "/x.jpg"}})

	state := s.State()
	assert.False(t, s.HasVariants())
	assert.Nil(t, state.Resolved)
	assert.Equal(t, 100.0, state.Price)
	assert.Equal(t, 7, state.Stock)
	assert.Equal(t, "/base.jpg", state.Image)
}

func TestSession_SelectOptionReResolves(t *testing.T) {
	product, variants := teeWithVariants()
	s := NewSession(product, variants)

	require.NoError(t, s.SelectOption("Size", "L"))
	state := s.State()
	require.NotNil(t, state.Resolved)
	assert.Equal(t, "B", state.Resolved.SKU)
	assert.Equal(t, 95.0, state.Price)
	assert.Equal(t, 5, state.Stock)
	assert.Equal(t, InStock, state.Availability)

	require.NoError(t, s.SelectOption("size", "XL"))
	state = s.State()
	assert.Nil(t, state.Resolved)
	assert.Equal(t, 80.0, state.Price)
	assert.Equal(t, 3, state.Stock)
}

func TestSession_SelectUnknownOption(t *testing.T) {
	product, variants := teeWithVariants()
	s := NewSession(product, variants)

	err := s.SelectOption("fit", "slim")
	assert.True(t, errors.Is(err, ErrUnknownOption))
	assert.Equal(t, "A", s.State().Resolved.SKU)
}

func TestSession_ImagePrecedence(t *testing.T) {
	product, variants := teeWithVariants()
	s := NewSession(product, variants)

	assert.Equal(t, "/tee-m.jpg", s.State().Image)

	s.ClickThumbnail("/tee-back.jpg")
	assert.Equal(t, "/tee-back.jpg", s.State().Image)

	// selecting a variant overrides the earlier click
	require.NoError(t, s.SelectOption("size", "L"))
	assert.Equal(t, "/tee.jpg", s.State().Image)

	require.NoError(t, s.SelectOption("size", "M"))
	assert.Equal(t, "/tee-m.jpg", s.State().Image)

	// a new click takes precedence again
	s.ClickThumbnail("/tee-back.jpg")
	assert.Equal(t, "/tee-back.jpg", s.State().Image)
}

func TestSession_Quantity(t *testing.T) {
	s := NewSession(domain.Product{Price: 1}, nil)

	s.DecreaseQuantity()
	assert.Equal(t, 1, s.Quantity())

	s.IncreaseQuantity()
	s.IncreaseQuantity()
	assert.Equal(t, 3, s.Quantity())

	assert.ErrorIs(t, s.SetQuantity(0), ErrInvalidQuantity)
	assert.Equal(t, 3, s.Quantity())

	require.NoError(t, s.SetQuantity(7))
	assert.Equal(t, 7, s.Quantity())
}

func TestGallery(t *testing.T) {
	product, _ := teeWithVariants()
	assert.Equal(t, []string{"/tee.jpg", "/tee-back.jpg"}, Gallery(product))
	assert.Empty(t, Gallery(domain.Product{}))
}

// Property: after any sequence of actions the resolved variant matches the
// current selection, and the displayed image follows the latest action
func TestProperty_SessionStaysInSync(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("selection and resolved variant never diverge", prop.ForAll(
		func(codes []int, actions []int) bool {
			product := domain.Product{Price: 50, Image: "/p.jpg"}
			variants := variantsFromCodes(codes)
			for i := range variants {
				if i%2 == 0 {
					variants[i].Image = "/v.jpg"
				}
			}
			s := NewSession(product, variants)

			lastWasClick := false
			for _, a := range actions {
				switch a % 3 {
				case 0:
					if s.SelectOption("size", testSizes[a%len(testSizes)]) == nil {
						lastWasClick = false
					}
				case 1:
					if s.SelectOption("COLOR", testColors[a%len(testColors)]) == nil {
						lastWasClick = false
					}
				default:
					s.ClickThumbnail("/thumb.jpg")
					lastWasClick = true
				}

				state := s.State()
				want, _ := Resolve(variants, state.Selection)
				if (want == nil) != (state.Resolved == nil) {
					return false
				}
				if want != nil && want.SKU != state.Resolved.SKU {
					return false
				}
				if lastWasClick != (state.Image == "/thumb.jpg") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 11)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
