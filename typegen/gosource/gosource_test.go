package gosource

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typereflect/schema"
)

const jobSource = `package jobs

import "time"

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running" // picked up by a worker
	JobFailed  JobStatus = "failed"
)

const unrelated = "ignored"

// Job is a unit of async work.
type Job struct {
	ID        string            ` + "`json:\"id\"`" + `
	Status    JobStatus         ` + "`json:\"status\"`" + `
	Progress  *float64          ` + "`json:\"progress,omitempty\"`" + `
	Tags      []string          ` + "`json:\"tags,omitempty\"`" + `
	Meta      map[string]string ` + "`json:\"meta\"`" + `
	Window    [2]int64          ` + "`json:\"window\"`" + `
	Parent    *Job              ` + "`json:\"parent\"`" + `
	CreatedAt time.Time         ` + "`json:\"created_at\"`" + `
	Payload   []byte            ` + "`json:\"payload\"`" + `
	Retries   int
	Secret    string ` + "`json:\"-\"`" + `
	Handler   func()            ` + "`json:\"handler\"`" + `
	internal  string
}

type Jobs []Job

type Worker interface {
	Run(Job) error
}

type notExported struct{}

type Free string
`

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "jobs.go", src, parser.ParseComments)
	require.NoError(t, err)
	return file
}

func TestFromFiles(t *testing.T) {
	set, err := FromFiles(parse(t, jobSource))
	require.NoError(t, err)

	var names []string
	for _, e := range set.Entities() {
		names = append(names, e.EntityName())
	}
	assert.Equal(t, []string{"JobStatus", "Job", "Jobs", "Free"}, names)

	t.Run("string consts become a simple enum", func(t *testing.T) {
		e, ok := set.Lookup("JobStatus")
		require.True(t, ok)
		enum := e.(*schema.Enum)
		assert.Equal(t, schema.SimpleRepresentation, enum.Representation())
		assert.Equal(t, "JobStatus is the lifecycle state of a job.", enum.Doc)
		require.Len(t, enum.Cases, 3)
		assert.Equal(t, "queued", enum.CaseLiteral(enum.Cases[0]))
		assert.Equal(t, "picked up by a worker", enum.Cases[1].Doc)
	})

	t.Run("struct fields", func(t *testing.T) {
		e, _ := set.Lookup("Job")
		job := e.(*schema.Struct)
		assert.Equal(t, "Job is a unit of async work.", job.Doc)

		got := make(map[string]string)
		var order []string
		for _, f := range job.Fields {
			got[f.Key()] = f.Type.String()
			order = append(order, f.Key())
		}
		assert.Equal(t, []string{"id", "status", "progress", "tags", "meta", "window", "parent", "created_at", "payload", "Retries"}, order)
		assert.Equal(t, "string", got["id"])
		assert.Equal(t, "JobStatus", got["status"])
		assert.Equal(t, "number?", got["progress"])
		assert.Equal(t, "string[]?", got["tags"])
		assert.Equal(t, "Record<string, string>", got["meta"])
		assert.Equal(t, "[number, number]", got["window"])
		assert.Equal(t, "Job?", got["parent"])
		assert.Equal(t, "string", got["created_at"])
		assert.Equal(t, "string", got["payload"])
		assert.Equal(t, "number", got["Retries"])
	})

	t.Run("named non-struct types become aliases", func(t *testing.T) {
		e, _ := set.Lookup("Jobs")
		assert.Equal(t, "Job[]", e.(*schema.Alias).Type.String())

		e, _ = set.Lookup("Free")
		assert.Equal(t, "string", e.(*schema.Alias).Type.String())
	})

	t.Run("references resolve", func(t *testing.T) {
		for _, e := range set.Entities() {
			assert.NoError(t, set.CheckReferences(e), e.EntityName())
		}
	})
}

func TestParseFieldTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want FieldTag
	}{
		{"simple", "`json:\"field_name\"`", FieldTag{Key: "field_name"}},
		{"omitempty", "`json:\"field_name,omitempty\"`", FieldTag{Key: "field_name", Omitempty: true}},
		{"omitempty without name", "`json:\",omitempty\"`", FieldTag{Omitempty: true}},
		{"skip", "`json:\"-\"`", FieldTag{Skip: true}},
		{"dash key", "`json:\"-,\"`", FieldTag{Key: "-"}},
		{"other tags only", "`yaml:\"x\"`", FieldTag{}},
		{"with other tags", "`json:\"id\" db:\"job_id\"`", FieldTag{Key: "id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFieldTag(&ast.BasicLit{Kind: token.STRING, Value: tt.tag})
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, FieldTag{}, ParseFieldTag(nil))
}

func TestFromFilesAcrossFiles(t *testing.T) {
	a := parse(t, "package p\n\ntype Mode string\n\ntype Config struct {\n\tMode Mode `json:\"mode\"`\n}\n")
	b := parse(t, "package p\n\nconst (\n\tFast Mode = \"fast\"\n\tSlow Mode = \"slow\"\n)\n")

	set, err := FromFiles(a, b)
	require.NoError(t, err)

	e, ok := set.Lookup("Mode")
	require.True(t, ok)
	require.IsType(t, &schema.Enum{}, e)
	assert.Len(t, e.(*schema.Enum).Cases, 2)
}
