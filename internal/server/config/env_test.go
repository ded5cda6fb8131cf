package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every bound variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings {
		t.Setenv(b.name, "")
	}
}

func Test_applyEnv(t *testing.T) {
	env := map[string]string{
		"AST_PROVIDER_TABLE":    "ast-providers",
		"AST_COURSE_TABLE":      "ast-courses",
		"AST_STORE_BACKEND":     "memory",
		"AWS_REGION":            "eu-west-1",
		"AWS_ACCESS_KEY_ID":     "AKIA",
		"AWS_SECRET_ACCESS_KEY": "secret",
		"AST_DYNAMODB_ENDPOINT": "http://localhost:8000",
		"AST_GRPC_ADDR":         "",
	}

	cfg := defaults()
	applyEnv(cfg, func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})

	want := defaults()
	want.ProviderTable = "ast-providers"
	want.CourseTable = "ast-courses"
	want.StoreBackend = "memory"
	want.AWSRegion = "eu-west-1"
	want.AWSAccessKeyID = "AKIA"
	want.AWSSecretAccessKey = "secret"
	want.DynamoDBEndpoint = "http://localhost:8000"

	assert.Equal(t, want, cfg)
}

func Test_parseEnv_ProcessEnvBeatsFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	clearEnv(t)

	dir := t.TempDir()
	envFile := writeTempFile(t, dir, "app.env", "AST_PROVIDER_TABLE=file-providers\nAST_COURSE_TABLE=file-courses\n")

	t.Setenv("AST_COURSE_TABLE", "process-courses")
	os.Args = []string{"testbin", "-env", envFile}

	cfg := defaults()
	parseEnv(cfg)

	assert.Equal(t, "file-providers", cfg.ProviderTable)
	assert.Equal(t, "process-courses", cfg.CourseTable)
}

func Test_parseEnv_MissingFiles(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("explicit file must exist", func(t *testing.T) {
		os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "missing.env")}
		assert.Panics(t, func() { parseEnv(defaults()) })
	})

	t.Run("default file is optional", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatal(err)
		}

		os.Args = []string{"testbin"}
		assert.NotPanics(t, func() { parseEnv(defaults()) })
	})
}
