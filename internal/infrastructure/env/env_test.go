package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_Defaults(t *testing.T) {
	e := FromMap(map[string]string{
		"TASKS_TABLE":          " Todo ",
		"AGENT_MAX_ITERATIONS": "4",
		"BAD_INT":              "four",
		"DEBUG":                "true",
		"BLANK":                "   ",
	})

	assert.Equal(t, "Todo", e.Get("TASKS_TABLE"))
	assert.Equal(t, "Todo", e.GetWithDefault("TASKS_TABLE", "Tasks"))
	assert.Equal(t, "Tasks", e.GetWithDefault("MISSING", "Tasks"))
	assert.Equal(t, "Tasks", e.GetWithDefault("BLANK", "Tasks"))
	assert.Equal(t, 4, e.GetInt("AGENT_MAX_ITERATIONS", 10))
	assert.Equal(t, 10, e.GetInt("BAD_INT", 10))
	assert.True(t, e.GetBool("DEBUG", false))
	assert.False(t, e.GetBool("MISSING", false))
}

func TestNewEnvService_LoadsDotenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, godotenv.Write(map[string]string{"TASK_AGENT_TEST_KEY": "base"}, filepath.Join(dir, ".env")))
	require.NoError(t, godotenv.Write(map[string]string{"TASK_AGENT_TEST_KEY": "override"}, filepath.Join(dir, ".env.test")))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("TASK_AGENT_TEST_KEY")
	})
	t.Setenv("APP_ENV", "test")

	e := NewEnvService()

	assert.Equal(t, "override", e.Get("TASK_AGENT_TEST_KEY"))
}
