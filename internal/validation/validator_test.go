package validation

import (
	"errors"
	"net/http/httptest"
	"testing"

	"fxconvert/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindQuery(t *testing.T, rawQuery string) error {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/conversion?"+rawQuery, nil)

	var q models.ConversionQuery
	return c.ShouldBindQuery(&q)
}

func TestDescribe(t *testing.T) {
	Initialize()

	tests := []struct {
		name         string
		query        string
		wantFields   []string
		wantContains []string
	}{
		{
			name:  "Valid query",
			query: "sourceCurrency=EUR&targetCurrency=USD&amount=100.00",
		},
		{
			name:         "Missing source currency",
			query:        "targetCurrency=USD&amount=1",
			wantFields:   []string{"sourceCurrency"},
			wantContains: []string{"sourceCurrency is a required field"},
		},
		{
			name:         "Wrong length currencies",
			query:        "sourceCurrency=EU&targetCurrency=USDX&amount=1",
			wantFields:   []string{"sourceCurrency", "targetCurrency"},
			wantContains: []string{"sourceCurrency must be 3 characters in length"},
		},
		{
			name:         "Blank currency",
			query:        "sourceCurrency=%20%20%20&targetCurrency=USD&amount=1",
			wantFields:   []string{"sourceCurrency"},
			wantContains: []string{"sourceCurrency must not contain spaces"},
		},
		{
			name:         "Padded currency",
			query:        "sourceCurrency=EUR&targetCurrency=%20US&amount=1",
			wantFields:   []string{"targetCurrency"},
			wantContains: []string{"targetCurrency must not contain spaces"},
		},
		{
			name:         "Zero amount",
			query:        "sourceCurrency=EUR&targetCurrency=USD&amount=0",
			wantFields:   []string{"amount"},
			wantContains: []string{"amount must be a number greater than 0"},
		},
		{
			name:         "Amount is not a number",
			query:        "sourceCurrency=EUR&targetCurrency=USD&amount=abc",
			wantFields:   []string{"amount"},
			wantContains: []string{"amount must be a number greater than 0"},
		},
		{
			name:         "Everything missing",
			query:        "",
			wantFields:   []string{"amount", "sourceCurrency", "targetCurrency"},
			wantContains: []string{"amount is a required field", "targetCurrency is a required field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindQuery(t, tt.query)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)

			message, fields := Describe(err)
			assert.Equal(t, tt.wantFields, fields)
			assert.Contains(t, message, InvalidInputPrefix)
			for _, want := range tt.wantContains {
				assert.Contains(t, message, want)
			}
		})
	}
}

func TestDescribe_NonValidationError(t *testing.T) {
	message, fields := Describe(errors.New("strconv.ParseInt: parsing \"x\": invalid syntax"))
	assert.Equal(t, InvalidInputPrefix+"strconv.ParseInt: parsing \"x\": invalid syntax", message)
	assert.Nil(t, fields)
}

func TestInitialize_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Initialize()
		Initialize()
	})
}
