package configuration

import (
	"bufio"
	"os"
	"strings"

	"tubetrends/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE pairs from the given files (config.env,
// .env). Missing files are skipped, blank lines and # comments are ignored,
// and variables already present in the environment are never overridden.
func LoadEnvFromFile(paths ...string) {
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		loaded := 0
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if key, value, ok := parseEnvLine(scanner.Text()); ok {
				if _, exists := os.LookupEnv(key); !exists {
					_ = os.Setenv(key, value)
					loaded++
				}
			}
		}
		_ = file.Close()
		logger.GetLogger().
			WithField("file", path).
			WithField("loaded", loaded).
			Debug("Environment file applied")
	}
}

// parseEnvLine splits one env-file line into a key/value pair. Values may be
// wrapped in single or double quotes.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" {
		return "", "", false
	}
	value := strings.Trim(strings.TrimSpace(line[idx+1:]), "\"'")
	return key, value, true
}
