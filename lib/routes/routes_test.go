package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRoutes(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRoutes(t, `[
		{
			"origin": "Bangkok",
			"destination": "Chiang Mai",
			"origin_slug": "bangkok",
			"destination_slug": "chiang-mai",
			"origin_id": "1447",
			"destination_id": "1615"
		}
	]`)

	routes, err := Load(path)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Equal(t, "Bangkok", routes[0].Origin)
	require.Equal(t, "1615", routes[0].DestinationID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadEmptyList(t *testing.T) {
	_, err := Load(writeRoutes(t, `[]`))
	require.Error(t, err)
}

func TestLoadIncompleteRoute(t *testing.T) {
	_, err := Load(writeRoutes(t, `[{"origin": "Bangkok"}]`))
	require.Error(t, err)
}
