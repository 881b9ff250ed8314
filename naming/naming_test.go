package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingular(t *testing.T) {
	tests := []struct {
		plural string
		want   string
	}{
		{"addresses", "Address"},
		{"ages", "Age"},
		{"tags", "Tag"},
		{"people", "Person"},
		{"sheep", "SheepEntry"},
		{"headers", "Header"},
		{"userAddresses", "UserAddress"},
		{"address", "AddressEntry"},
	}
	for _, tt := range tests {
		t.Run(tt.plural, func(t *testing.T) {
			assert.Equal(t, tt.want, Singular(tt.plural))
			assert.NotEqual(t, Pascal(tt.plural), Singular(tt.plural))
		})
	}
}

func TestPascal(t *testing.T) {
	assert.Equal(t, "Name", Pascal("name"))
	assert.Equal(t, "UserID", Pascal("userID"))
	assert.Equal(t, "MaxRetries", Pascal("max_retries"))
	assert.Equal(t, "Timeout", Pascal("Timeout"))
	assert.Equal(t, "", Pascal(""))
}

func TestCamel(t *testing.T) {
	tests := map[string]string{
		"Name":       "name",
		"ID":         "id",
		"URL":        "url",
		"HTTPClient": "httpClient",
		"UserID":     "userID",
		"already":    "already",
		"max_size":   "maxSize",
	}
	for in, want := range tests {
		assert.Equal(t, want, Camel(in), in)
	}
}

func TestRecase(t *testing.T) {
	assert.Equal(t, "ServerBuilder", Recase("serverBuilder", true))
	assert.Equal(t, "serverBuilder", Recase("ServerBuilder", false))
	assert.Equal(t, "", Recase("", true))
	assert.Equal(t, "httpServerBuilder", Recase("HTTPServerBuilder", false))
	assert.Equal(t, "New_thing", Recase("new_thing", true))
}

func TestStripPrivate(t *testing.T) {
	assert.Equal(t, "name", StripPrivate("_name"))
	assert.Equal(t, "_name", StripPrivate("__name"))
	assert.Equal(t, "_", StripPrivate("_"))
	assert.Equal(t, "name", StripPrivate("name"))
}

func TestSafeParam(t *testing.T) {
	assert.Equal(t, "type_", SafeParam("type"))
	assert.Equal(t, "v", SafeParam("_"))
	assert.Equal(t, "b_", SafeParam("b", "b"))
	assert.Equal(t, "name", SafeParam("name", "b"))
}

func TestHasConstructorPrefix(t *testing.T) {
	rest, ok := HasConstructorPrefix("NewServer")
	assert.True(t, ok)
	assert.Equal(t, "Server", rest)

	rest, ok = HasConstructorPrefix("newClient")
	assert.True(t, ok)
	assert.Equal(t, "Client", rest)

	_, ok = HasConstructorPrefix("Newton")
	assert.False(t, ok)
	_, ok = HasConstructorPrefix("New")
	assert.False(t, ok)
	_, ok = HasConstructorPrefix("MakeServer")
	assert.False(t, ok)

	assert.True(t, IsConstructorKeyword("New"))
	assert.True(t, IsConstructorKeyword("new"))
	assert.False(t, IsConstructorKeyword("NewX"))
}

func TestIdentHelpers(t *testing.T) {
	assert.True(t, IsIdent("Build"))
	assert.False(t, IsIdent("func"))
	assert.False(t, IsIdent("build-it"))
}
