package profiler

import (
	"encoding/json"
	"os"
)

// ReportJSON writes v as indented JSON to the file at path.
func ReportJSON(path string, v interface{}) error {
	jsonStr, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(jsonStr)
	if err != nil {
		return err
	}

	return file.Close()
}
