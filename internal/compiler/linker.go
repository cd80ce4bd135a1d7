package compiler

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/easy-make/easy-make/internal/common"
)

// Link invokes the configured compiler once to link every object file in
// objectDir into the configuration's output, returning true on a zero
// exit code. A link failure is reported but is not fatal to the process;
// the caller decides the exit status.
func (c *Compiler) Link() (bool, error) {
	outputPath := c.Config.OutputPath
	if outputPath == "" {
		outputPath = "."
	}
	if err := os.MkdirAll(filepath.Join(c.ProjectRoot, outputPath), os.ModePerm); err != nil {
		return false, err
	}

	objects, err := filepath.Glob(filepath.Join(c.ObjectDir, "*.o"))
	if err != nil {
		return false, err
	}

	outFile := filepath.Join(outputPath, c.Config.OutputName)

	var args []string
	if len(c.Config.LinkFlags) > 0 {
		args = append(args, c.Config.LinkFlags...)
	}
	args = append(args, objects...)
	args = append(args, "-o", outFile)

	cmd := exec.Command(c.Config.Compiler, args...)
	cmd.Dir = c.ProjectRoot
	output, runErr := cmd.CombinedOutput()

	success := runErr == nil && cmd.ProcessState.ExitCode() == 0
	if !success {
		reason := strings.TrimSpace(string(output))
		if c.Logger != nil {
			c.Logger.Error("link failed", "reason", reason)
		}
		return false, &common.LinkFailure{Reason: reason}
	}
	return true, nil
}
