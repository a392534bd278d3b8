package templates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBrand = Brand{AppName: "Smart Living", CompanyName: "Smart Living LLC", City: "Charlotte, NC", DashboardURL: "https://example.com/dashboard"}

func TestRender_ProfileCreated(t *testing.T) {
	t.Parallel()
	data := NewProfileCreatedData(testBrand, "Ada", "ada@example.com", map[string]string{"Household size": "3"})

	subject, text, html, err := Render(ProfileCreated, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Smart Living, Ada", subject)
	assert.Contains(t, text, "- Household size: 3")
	assert.Contains(t, text, "Charlotte, NC")
	assert.Contains(t, html, `href="https://example.com/dashboard"`)
}

func TestRender_ContactInquiryEscapesHTML(t *testing.T) {
	t.Parallel()
	data := NewContactInquiryData(testBrand, "", "bob@example.com", "hello@example.com", "", "<script>x</script>",
		WithTime(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)), WithIP("203.0.113.9"))

	subject, text, html, err := Render(ContactInquiry, data)
	require.NoError(t, err)
	assert.Equal(t, "[Contact] New inquiry from bob@example.com", subject)
	assert.Contains(t, text, "Received: 01 May 2024, 12:30")
	assert.Contains(t, text, "<script>x</script>")
	assert.NotContains(t, html, "<script>")
}

func TestKnown(t *testing.T) {
	t.Parallel()
	assert.True(t, Known(ProfileCreated))
	assert.True(t, Known(ContactInquiry))
	assert.False(t, Known("login_otp"))
}

type fakeResolver struct {
	geo Geo
	err error
}

func (f fakeResolver) Lookup(context.Context, string) (Geo, error) { return f.geo, f.err }

func TestWithGeoFromIP(t *testing.T) {
	t.Parallel()
	ok := fakeResolver{geo: Geo{City: "Charlotte", Region: "North Carolina", Country: "United States"}}
	d := NewBaseEmailData(testBrand, ContactInquiry, "", "", "", WithGeoFromIP(context.Background(), ok, "1.2.3.4"))
	assert.Equal(t, "Charlotte, North Carolina, United States", d.Location)

	bad := fakeResolver{err: errors.New("lookup failed")}
	d = NewBaseEmailData(testBrand, ContactInquiry, "", "", "", WithGeoFromIP(context.Background(), bad, "1.2.3.4"))
	assert.Empty(t, d.Location)
}
