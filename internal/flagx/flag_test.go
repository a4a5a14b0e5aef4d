package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-a", "x", "-b", "y"}, []string{"-a"}, []string{"-a", "x"}},
		{"equals form", []string{"-config=c.json", "-z"}, []string{"-config"}, []string{"-config=c.json"}},
		{"value looks like flag", []string{"-a", "-b"}, []string{"-a"}, []string{"-a"}},
		{"nothing allowed", []string{"-a", "1"}, nil, []string{}},
		{"trailing flag", []string{"submit", "-a"}, []string{"-a"}, []string{"-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestStripArgs_IsComplementOfFilter(t *testing.T) {
	args := []string{"-token", "abc", "submit", "-pan-number", "ABCDE1234F", "-journal=j.db", "-pan-front", "p.jpg"}
	owned := []string{"-token", "-journal"}

	assert.Equal(t, []string{"-token", "abc", "-journal=j.db"}, FilterArgs(args, owned))
	assert.Equal(t, []string{"submit", "-pan-number", "ABCDE1234F", "-pan-front", "p.jpg"}, StripArgs(args, owned))
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-x", "1", "-c", "a.json"}
	assert.Equal(t, "a.json", JsonConfigFlags())

	os.Args = []string{"bin", "-config=b.json"}
	assert.Equal(t, "b.json", JsonConfigFlags())

	os.Args = []string{"bin"}
	assert.Equal(t, "", JsonConfigFlags())
}
