package vrbuild

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/vrsoftware/vrbuild/pkg/cfg"
)

const (
	pomNamespace      = "http://maven.apache.org/POM/4.0.0"
	pomXSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	pomSchemaLocation = "http://maven.apache.org/POM/4.0.0 https://maven.apache.org/xsd/maven-4.0.0.xsd"
)

type pomProject struct {
	XMLName        xml.Name        `xml:"project"`
	Xmlns          string          `xml:"xmlns,attr"`
	XmlnsXSI       string          `xml:"xmlns:xsi,attr"`
	SchemaLocation string          `xml:"xsi:schemaLocation,attr"`
	ModelVersion   string          `xml:"modelVersion"`
	GroupID        string          `xml:"groupId"`
	ArtifactID     string          `xml:"artifactId"`
	Version        string          `xml:"version"`
	Name           string          `xml:"name"`
	Packaging      string          `xml:"packaging"`
	Dependencies   []pomDependency `xml:"dependencies>dependency,omitempty"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

// POM returns the Maven project object model document of a version of the
// project.
func POM(project *cfg.Project, version string) ([]byte, error) {
	pom := pomProject{
		Xmlns:          pomNamespace,
		XmlnsXSI:       pomXSINamespace,
		SchemaLocation: pomSchemaLocation,
		ModelVersion:   "4.0.0",
		GroupID:        project.Group,
		ArtifactID:     project.Publish.ArtifactID,
		Version:        version,
		Name:           project.Name,
		Packaging:      "jar",
	}

	for _, dep := range project.Publish.Dependencies {
		pom.Dependencies = append(pom.Dependencies, pomDependency{
			GroupID:    dep.Group,
			ArtifactID: dep.Artifact,
			Version:    dep.Version,
			Scope:      dep.Scope,
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	if err := enc.Encode(&pom); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// MavenPath returns the path of a file of an artifact version in a Maven
// repository layout: <group>/<artifactId>/<version>/<artifactId>-<version><suffix>.
func MavenPath(project *cfg.Project, version, suffix string) string {
	return groupPath(project.Group) + "/" +
		project.Publish.ArtifactID + "/" +
		version + "/" +
		project.Publish.ArtifactID + "-" + version + suffix
}

func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}
