// Tinyeval runs toy imperative programs given as yaml encoded syntax trees.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/struct2env"
	"github.com/joho/godotenv"
	"grol.io/tinyeval/ast"
	"grol.io/tinyeval/eval"
	"grol.io/tinyeval/program"
	"grol.io/tinyeval/runner"
)

func main() {
	os.Exit(Main())
}

type Config struct {
	MaxDepth int
	Compact  bool
}

var config = Config{MaxDepth: eval.DefaultMaxDepth}

func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(config)
	str := struct2env.ToShellWithPrefix("TINYEVAL_", res, true)
	fmt.Fprintln(w, "# Tinyeval environment variables:")
	fmt.Fprint(w, str)
}

// loadConfig reads the optional .env file then the TINYEVAL_ environment variables.
func loadConfig(envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Warnf("Couldn't load env file %q: %v", envFile, err)
		} else {
			log.LogVf("Loaded %s", envFile)
		}
	}
	errs := struct2env.SetFromEnv("TINYEVAL_", &config)
	if len(errs) > 0 {
		log.Errf("Error setting config from env: %v", errs)
	}
}

func Main() int {
	showTree := flag.Bool("tree", false, "show the program tree before running it")
	compact := flag.Bool("compact", false, "When printing the tree, use a single line")
	check := flag.Bool("check", false, "don't run programs reading variables before they are set")
	showVars := flag.Bool("vars", false, "show the variables after each run")
	dump := flag.Bool("dump", false, "don't execute, just write the yaml tree (useful to get the built-in program)")
	maxDepth := flag.Int("max-depth", 0, "Maximum tree nesting `depth`, 0 for the config/default value")
	envFile := flag.String("env-file", "", "optional .env `file` to load before reading TINYEVAL_ variables")
	panicOk := flag.Bool("panic", false, "Don't catch panic - only for development/debugging")
	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	cli.ArgsHelp = "*.yaml program files to run or `-` for stdin, no arguments runs the built-in example"
	cli.MaxArgs = -1
	cli.Main()
	loadConfig(*envFile)
	options := runner.Options{
		ShowTree: *showTree,
		Compact:  *compact || config.Compact,
		Check:    *check,
		ShowVars: *showVars,
		MaxDepth: config.MaxDepth,
		PanicOk:  *panicOk,
	}
	if *maxDepth > 0 {
		options.MaxDepth = *maxDepth
	}
	log.Infof("tinyeval %s - welcome!", cli.LongVersion)
	if len(flag.Args()) == 0 {
		if *dump {
			return dumpTree(program.Demo())
		}
		log.Infof("Running built-in example")
		_, err := runner.RunProgram(program.Demo(), os.Stdout, options)
		if err != nil {
			return log.FErrf("Error: %v", err)
		}
		return 0
	}
	failures := 0
	for _, file := range flag.Args() {
		if *dump {
			failures += processDump(file)
			continue
		}
		failures += processOneFile(file, options)
	}
	log.Infof("All done")
	return failures
}

func dumpTree(stmt ast.Statement) int {
	if err := program.Encode(os.Stdout, stmt); err != nil {
		return log.FErrf("Error writing yaml: %v", err)
	}
	return 0
}

func open(file string) (io.ReadCloser, error) {
	if file == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(file)
}

func processDump(file string) int {
	f, err := open(file)
	if err != nil {
		return log.FErrf("%v", err)
	}
	defer f.Close()
	stmt, err := program.Decode(f)
	if err != nil {
		return log.FErrf("Error in %s: %v", file, err)
	}
	return dumpTree(stmt)
}

func processOneFile(file string, options runner.Options) int {
	f, err := open(file)
	if err != nil {
		return log.FErrf("%v", err)
	}
	defer f.Close()
	log.Infof("Running %s", file)
	_, err = runner.RunReader(f, os.Stdout, options)
	if err != nil {
		return log.FErrf("Error in %s: %v", file, err)
	}
	return 0
}
