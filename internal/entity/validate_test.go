package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validRaw() RawPreorder {
	return RawPreorder{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ProductType: "shorts",
		Size:        "M",
		DeviceType:  "apple_watch",
	}
}

func TestValidatePreorder_Accepts(t *testing.T) {
	req, err := ValidatePreorder(validRaw())
	require.NoError(t, err)

	assert.Equal(t, PreorderRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ProductType: ProductShorts,
		Size:        SizeM,
		DeviceType:  DeviceAppleWatch,
	}, req)
}

func TestValidatePreorder_Trims(t *testing.T) {
	raw := RawPreorder{
		FirstName:   "  Ada\t",
		LastName:    "\nLovelace ",
		Email:       " ada@example.com ",
		ProductType: " shirts",
		Size:        "XXL ",
		DeviceType:  " none ",
	}

	req, err := ValidatePreorder(raw)
	require.NoError(t, err)
	assert.Equal(t, "Ada", req.FirstName)
	assert.Equal(t, "Lovelace", req.LastName)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, ProductShirts, req.ProductType)
	assert.Equal(t, SizeXXL, req.Size)
	assert.Equal(t, DeviceNone, req.DeviceType)
}

func TestValidatePreorder_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawPreorder)
		field  Field
	}{
		{"empty first name", func(r *RawPreorder) { r.FirstName = "" }, FieldFirstName},
		{"blank first name", func(r *RawPreorder) { r.FirstName = "   " }, FieldFirstName},
		{"blank last name", func(r *RawPreorder) { r.LastName = "\t" }, FieldLastName},
		{"email without at", func(r *RawPreorder) { r.Email = "not-an-email" }, FieldEmail},
		{"email without dot", func(r *RawPreorder) { r.Email = "ada@example" }, FieldEmail},
		{"email with space", func(r *RawPreorder) { r.Email = "ada lovelace@example.com" }, FieldEmail},
		{"email with no-break space", func(r *RawPreorder) { r.Email = "ada\u00a0lovelace@example.com" }, FieldEmail},
		{"email with ideographic space", func(r *RawPreorder) { r.Email = "ada@example\u3000.com" }, FieldEmail},
		{"email with byte order mark", func(r *RawPreorder) { r.Email = "ada@exam\ufeffple.com" }, FieldEmail},
		{"unknown product", func(r *RawPreorder) { r.ProductType = "hats" }, FieldProductType},
		{"unknown size", func(r *RawPreorder) { r.Size = "XXXL" }, FieldSize},
		{"lowercase size", func(r *RawPreorder) { r.Size = "m" }, FieldSize},
		{"unknown device", func(r *RawPreorder) { r.DeviceType = "pebble" }, FieldDeviceType},
		{"empty device", func(r *RawPreorder) { r.DeviceType = "" }, FieldDeviceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			req, err := ValidatePreorder(raw)
			require.Error(t, err)
			assert.Equal(t, PreorderRequest{}, req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidatePreorder_FirstFailureWins(t *testing.T) {
	raw := RawPreorder{Email: "bad", Size: "nope", DeviceType: "nope"}

	_, err := ValidatePreorder(raw)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldFirstName, verr.Field)

	raw.FirstName, raw.LastName = "Ada", "Lovelace"
	_, err = ValidatePreorder(raw)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldEmail, verr.Field)
}

func genName(t *rapid.T, label string) string {
	return rapid.StringMatching(`[A-Za-z][A-Za-z' -]{0,20}[A-Za-z]`).Draw(t, label)
}

func genPadding(t *rapid.T, label string) string {
	return rapid.SampledFrom([]string{"", " ", "  ", "\t", "\n", " \t "}).Draw(t, label)
}

func TestValidatePreorder_AcceptsEveryValidTuple(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		first := genName(t, "first")
		last := genName(t, "last")
		email := rapid.StringMatching(`[a-z0-9._%+-]{1,12}@[a-z0-9-]{1,12}\.[a-z]{2,6}`).Draw(t, "email")
		product := rapid.SampledFrom(ProductTypes).Draw(t, "product")
		size := rapid.SampledFrom(Sizes).Draw(t, "size")
		device := rapid.SampledFrom(DeviceTypes).Draw(t, "device")

		raw := RawPreorder{
			FirstName:   genPadding(t, "p1") + first + genPadding(t, "p2"),
			LastName:    genPadding(t, "p3") + last + genPadding(t, "p4"),
			Email:       genPadding(t, "p5") + email + genPadding(t, "p6"),
			ProductType: string(product),
			Size:        string(size),
			DeviceType:  string(device),
		}

		req, err := ValidatePreorder(raw)
		if err != nil {
			t.Fatalf("valid tuple rejected: %v (%+v)", err, raw)
		}
		want := PreorderRequest{
			FirstName:   first,
			LastName:    last,
			Email:       email,
			ProductType: product,
			Size:        size,
			DeviceType:  device,
		}
		if req != want {
			t.Fatalf("got %+v, want %+v", req, want)
		}
	})
}

func TestValidatePreorder_NamesTheBrokenField(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := validRaw()
		field := rapid.SampledFrom([]Field{
			FieldFirstName, FieldLastName, FieldEmail, FieldSize, FieldDeviceType,
		}).Draw(t, "field")

		switch field {
		case FieldFirstName:
			raw.FirstName = genPadding(t, "blank")
		case FieldLastName:
			raw.LastName = genPadding(t, "blank")
		case FieldEmail:
			raw.Email = rapid.StringMatching(`[a-z]{0,10}`).Draw(t, "bad-email")
		case FieldSize:
			raw.Size = rapid.StringMatching(`[a-z]{1,4}|XXXL|\?`).Draw(t, "bad-size")
		case FieldDeviceType:
			raw.DeviceType = rapid.StringMatching(`[A-Z]{1,8}|pebble`).Draw(t, "bad-device")
		}

		_, err := ValidatePreorder(raw)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %s, got %v", field, err)
		}
		if verr.Field != field {
			t.Fatalf("expected field %s, got %s", field, verr.Field)
		}
	})
}

func TestEnumLabels(t *testing.T) {
	assert.Equal(t, "AI Performance Shorts", ProductShorts.Label())
	assert.Equal(t, "AI Performance Shirts", ProductShirts.Label())
	assert.Equal(t, "Apple Watch", DeviceAppleWatch.Label())
	assert.Equal(t, "None", DeviceNone.Label())

	for _, d := range DeviceTypes {
		assert.True(t, d.Valid(), d)
		assert.False(t, strings.Contains(d.Label(), "_"), d)
	}
}

func TestPhaseCanSubmit(t *testing.T) {
	assert.True(t, PhaseIdle.CanSubmit())
	assert.True(t, PhaseFailed.CanSubmit())
	assert.False(t, PhaseSubmitting.CanSubmit())
	assert.False(t, PhaseSucceeded.CanSubmit())
}
