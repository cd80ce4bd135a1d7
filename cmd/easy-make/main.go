package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/easy-make/easy-make/internal/buildcache"
	"github.com/easy-make/easy-make/internal/common"
	"github.com/easy-make/easy-make/internal/configresolve"
	"github.com/easy-make/easy-make/internal/orchestrator"
)

func failedStart(err interface{}) {
	_, _ = fmt.Fprintln(os.Stderr, "[easy-make]", err)
	os.Exit(1)
}

func main() {
	showVersionAndExit := common.CmdEnvBool("Show version and exit.", false,
		"version", "")
	configFileName := common.CmdEnvString("Path to a JSON file holding the list of configurations to build.", "",
		"config", "EASY_MAKE_CONFIG")
	projectRoot := common.CmdEnvString("Project root the configuration's paths are relative to.\nDefaults to the configuration file's own directory.", "",
		"project-root", "EASY_MAKE_PROJECT_ROOT")
	buildDirName := common.CmdEnvString("Build directory name, nested under project-root.", "build",
		"build-dir", "EASY_MAKE_BUILD_DIR")
	configName := common.CmdEnvString("Name of the configuration to build.", "",
		"build", "EASY_MAKE_CONFIG_NAME")
	parallel := common.CmdEnvBool("Compile with a bounded worker pool instead of one file at a time.", true,
		"parallel", "EASY_MAKE_PARALLEL")
	cacheDir := common.CmdEnvString("Directory for the cross-configuration object cache. Empty disables it.", "",
		"cache-dir", "EASY_MAKE_CACHE_DIR")
	cacheLimitMB := common.CmdEnvInt("Object cache size limit, in megabytes.", 512,
		"cache-limit-mb", "EASY_MAKE_CACHE_LIMIT_MB")
	logFileName := common.CmdEnvString("A filename to log to, stderr by default.", "",
		"log-filename", "EASY_MAKE_LOG_FILENAME")
	logVerbosity := common.CmdEnvInt("Logger verbosity for INFO (-1 off, default 0, max 2).", 0,
		"log-verbosity", "EASY_MAKE_LOG_VERBOSITY")

	common.ParseCmdFlagsCombiningWithEnv()

	if *showVersionAndExit {
		fmt.Println(common.GetVersion())
		os.Exit(0)
	}

	if *configFileName == "" {
		failedStart("no configuration file given; pass -config or set EASY_MAKE_CONFIG")
	}
	if *configName == "" {
		failedStart("no configuration name given; pass -build or set EASY_MAKE_CONFIG_NAME")
	}

	root := *projectRoot
	if root == "" {
		abs, err := filepath.Abs(filepath.Dir(*configFileName))
		if err != nil {
			failedStart(err)
		}
		root = abs
	}

	logger, err := common.MakeLogger(*logFileName, int(*logVerbosity), *logFileName == "")
	if err != nil {
		failedStart(err)
	}

	configs, err := readConfigurations(*configFileName)
	if err != nil {
		failedStart(err)
	}

	resolver, err := configresolve.NewConfigResolver(configs, root)
	if err != nil {
		failedStart(err)
	}

	resolved, err := resolver.ResolveOne(*configName)
	if err != nil {
		failedStart(err)
	}

	var cache *buildcache.FileCache
	if *cacheDir != "" {
		cache, err = buildcache.NewFileCache(*cacheDir, *cacheLimitMB*1024*1024)
		if err != nil {
			failedStart(err)
		}
	}

	report, buildErr := orchestrator.BuildOnce(resolved, orchestrator.Options{
		ProjectRoot: root,
		BuildDir:    *buildDirName,
		Parallel:    *parallel && runtime.NumCPU() > 1,
		Cache:       cache,
		Logger:      logger,
		Out:         os.Stdout,
	})

	if buildErr != nil {
		logger.Error(buildErr)
		fmt.Fprintln(os.Stderr, buildErr)
		os.Exit(1)
	}

	fmt.Printf("built %q: %d file(s) compiled, linked=%v\n", report.ConfigName, len(report.FilesToCompile), report.Linked)
}
