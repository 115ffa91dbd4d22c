package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowManifest(t *testing.T) {
	initTest(t)
	initProject(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newShowManifestCmd(), exitCodeSuccess)

	out := stdoutBuf.String()
	assert.Contains(t, out, "Manifest-Version: 1.0\n")
	assert.Contains(t, out, "Implementation-Title: VRLog\n")
	assert.Contains(t, out, "Implementation-Version: 4.1.2-7\n")
	assert.Contains(t, out, "Version-Build: 7\n")
	assert.Contains(t, out, "Built-By: tester\n")
}

func TestShowManifestOfJar(t *testing.T) {
	initTest(t)
	p := initProject(t)

	execCheck(t, newJarCmd(), exitCodeSuccess)

	stdoutBuf, _ := interceptCmdOutput(t)
	execCheck(t, newShowManifestCmd(), exitCodeSuccess, p.Path("dist/VRLog.jar"))

	assert.Contains(t, stdoutBuf.String(), "Implementation-Version: 4.1.2-7\n")
}

func TestShowManifestOfMissingJarFails(t *testing.T) {
	initTest(t)

	execCheck(t, newShowManifestCmd(), exitCodeError, "/nonexisting/VRLog.jar")
}
