package nosql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	testCases := []struct {
		name          string
		dialect       string
		wantName      string
		wantQuote     string
		wantPH        []string
		wantRegex     string
		wantReturning bool
		wantErr       bool
	}{
		{
			name:          "mysql",
			dialect:       "mysql",
			wantName:      "mysql",
			wantQuote:     "`a``b`",
			wantPH:        []string{"?", "?", "?"},
			wantRegex:     "`c` REGEXP ?",
			wantReturning: false,
		},
		{
			name:          "pgsql",
			dialect:       "pgsql",
			wantName:      "pgsql",
			wantQuote:     `"a` + "`" + `b"`,
			wantPH:        []string{"$1", "$2", "$3"},
			wantRegex:     `"c" ~ $1`,
			wantReturning: true,
		},
		{
			name:          "postgres alias",
			dialect:       "postgres",
			wantName:      "pgsql",
			wantQuote:     `"a` + "`" + `b"`,
			wantPH:        []string{"$1", "$2", "$3"},
			wantRegex:     `"c" ~ $1`,
			wantReturning: true,
		},
		{
			name:    "unknown",
			dialect: "sqlite",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := GetDialect(tc.dialect)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, d.Name())
			assert.Equal(t, tc.wantQuote, d.Quote("a`b"))
			for i, ph := range tc.wantPH {
				assert.Equal(t, ph, d.Placeholder(i+1))
			}
			assert.Equal(t, tc.wantRegex, d.Regex(d.Quote("c"), d.Placeholder(1)))
			assert.Equal(t, tc.wantReturning, d.SupportsReturning())
		})
	}
}

func TestQuote_Postgresql(t *testing.T) {
	assert.Equal(t, `"a""b"`, (&Postgresql{}).Quote(`a"b`))
}

type upperDialect struct {
	BaseDialect
}

func (upperDialect) Name() string { return "upper" }

func (upperDialect) Regex(col string, placeholder string) string {
	return "REGEXP_LIKE(" + col + ", " + placeholder + ")"
}

func TestRegisterDialect(t *testing.T) {
	RegisterDialect("upper", upperDialect{})
	d, err := GetDialect("upper")
	require.NoError(t, err)

	stmt, err := NewSelector(d, "t", D{{"a", D{{"$regex", "x"}}}}).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t` WHERE REGEXP_LIKE(`a`, ?)", stmt.SQL)
	assert.False(t, d.SupportsReturning())
}
