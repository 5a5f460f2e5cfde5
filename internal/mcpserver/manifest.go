package mcpserver

import (
	"encoding/json"
)

const manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package describes how a client launches the server.
type Package struct {
	RegistryType     string     `json:"registryType"`
	Identifier       string     `json:"identifier"`
	PackageArguments []Argument `json:"packageArguments,omitempty"`
	Transport        Transport  `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest returns the indented server.json for version.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	manifest := Manifest{
		Schema:      manifestSchema,
		Name:        "io.github.panbanda/mood",
		Description: "Object-oriented design metrics (DIT, NOC, MOOD factors, POF) for class hierarchy models",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/mood",
			Source: "github",
		},
		Packages: []Package{
			{
				RegistryType:     "oci",
				Identifier:       "ghcr.io/panbanda/mood:" + version,
				PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
				Transport:        Transport{Type: "stdio"},
			},
		},
	}

	return json.MarshalIndent(manifest, "", "  ")
}
