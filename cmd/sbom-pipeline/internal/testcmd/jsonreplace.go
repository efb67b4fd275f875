package testcmd

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

type JSONReplaceRule struct {
	Path        string
	ReplaceFunc func(toReplace gjson.Result) any
}

func replaceWith(placeholder string) func(gjson.Result) any {
	return func(_ gjson.Result) any {
		return placeholder
	}
}

var (
	// AnySerialNumber replaces the randomly generated BOM serial number
	AnySerialNumber = JSONReplaceRule{
		Path:        "serialNumber",
		ReplaceFunc: replaceWith("urn:uuid:<uuid>"),
	}
	// AnyTimestamp replaces the time the BOM was generated at
	AnyTimestamp = JSONReplaceRule{
		Path:        "metadata.timestamp",
		ReplaceFunc: replaceWith("<timestamp>"),
	}
	// AnyMetadataBOMRef replaces the randomly generated reference of the metadata component
	AnyMetadataBOMRef = JSONReplaceRule{
		Path:        "metadata.component.bom-ref",
		ReplaceFunc: replaceWith("<uuid>"),
	}
	// AnyComponentBOMRef replaces the randomly generated references of every component
	AnyComponentBOMRef = JSONReplaceRule{
		Path:        "components.#.bom-ref",
		ReplaceFunc: replaceWith("<uuid>"),
	}
	// OnlyIDVulnsRule simplifies vulnerabilities to only their ID
	OnlyIDVulnsRule = JSONReplaceRule{
		Path: "vulnerabilities",
		ReplaceFunc: func(toReplace gjson.Result) any {
			return toReplace.Get("#.id").Value()
		},
	}

	// BOMRules replaces every non-deterministic field of a converted BOM
	BOMRules = []JSONReplaceRule{
		AnySerialNumber,
		AnyTimestamp,
		AnyMetadataBOMRef,
		AnyComponentBOMRef,
	}
)

// normalizeJSON runs the given JSONReplaceRules on the given JSON input and returns it formatted
func normalizeJSON(t *testing.T, jsonInput string, jsonReplaceRules ...JSONReplaceRule) string {
	t.Helper()

	for _, rule := range jsonReplaceRules {
		jsonInput = replaceJSONInput(t, jsonInput, rule.Path, rule.ReplaceFunc)
	}

	return string(pretty.PrettyOptions([]byte(jsonInput), &pretty.Options{Indent: "  "}))
}

// expandArrayPaths resolves every "#" placeholder in path into the indexes of
// the matching array in jsonInput
func expandArrayPaths(jsonInput string, path string) []string {
	pathToArray, restOfPath, hasArrayPlaceholder := strings.Cut(path, ".#.")

	if !hasArrayPlaceholder {
		pathToArray, hasArrayPlaceholder = strings.CutSuffix(path, ".#")
	}

	if !hasArrayPlaceholder {
		return []string{path}
	}

	r := gjson.Get(jsonInput, pathToArray)

	if !r.IsArray() {
		return []string{}
	}

	paths := make([]string, 0, len(r.Array()))

	for i := range r.Array() {
		static := pathToArray + "." + strconv.Itoa(i)

		if restOfPath != "" {
			static += "." + restOfPath
		}
		paths = append(paths, expandArrayPaths(jsonInput, static)...)
	}

	return paths
}

// replaceJSONInput takes a gjson path and replaces all elements the path matches with the output of replacer
func replaceJSONInput(t *testing.T, jsonInput string, path string, replacer func(toReplace gjson.Result) any) string {
	t.Helper()

	var err error
	json := jsonInput
	for _, pathElem := range expandArrayPaths(jsonInput, path) {
		res := gjson.Get(jsonInput, pathElem)

		if !res.Exists() {
			continue
		}

		json, err = sjson.SetOptions(json, pathElem, replacer(res), &sjson.Options{Optimistic: true})
		if err != nil {
			t.Fatalf("failed to replace %s: %v", pathElem, err)
		}
	}

	return json
}
