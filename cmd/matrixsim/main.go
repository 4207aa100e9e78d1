// Command matrixsim is the runner around the matrix-extension assembler and
// simulator core: it owns every filesystem/TTY concern spec.md places
// outside the core (§1, §6) — snapshot load/save, machine-code and assembly
// file I/O, and the interactive setup/reset flows — behind cobra
// subcommands, the way oisee/z80-optimizer's cmd/z80opt/main.go structures a
// multi-operation CLI instead of the teacher's single flat flag set.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvmatrix/miss/config"
	"github.com/rvmatrix/miss/encoder"
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/loader"
	"github.com/rvmatrix/miss/parser"
	"github.com/rvmatrix/miss/tools"
	"github.com/rvmatrix/miss/vm"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "matrixsim",
		Short:   "RISC-V Matrix Extension assembler and instruction-set simulator",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
	}

	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to matrixsim.toml (default: platform config dir)")

	rootCmd.AddCommand(
		newRunCmd(&configPath),
		newAssembleCmd(),
		newSetupCmd(&configPath),
		newResetCmd(&configPath),
		newLintCmd(),
		newFormatCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// newRunCmd implements spec.md §6's "no flag" behavior: load snapshots,
// load the machine-code file, run, save snapshots.
func newRunCmd(configPath *string) *cobra.Command {
	var (
		snapshotDir string
		program     string
		maxSteps    uint64
		memSize     uint
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load snapshots, run a machine-code program, save snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if snapshotDir == "" {
				snapshotDir = cfg.Execution.SnapshotDir
			}
			if program == "" {
				program = cfg.Execution.MachineCodeFile
			}
			if maxSteps == 0 {
				maxSteps = cfg.Execution.MaxSteps
			}
			memSizeU32, err := vm.SafeUintToUint32(memSize)
			if err != nil {
				return fmt.Errorf("--mem-size: %w", err)
			}
			if memSizeU32 == 0 {
				memSizeU32, err = vm.SafeUintToUint32(cfg.Execution.MemorySizeBytes)
				if err != nil {
					return fmt.Errorf("config memory_size_bytes: %w", err)
				}
			}

			sim := vm.NewSimulator(int(memSizeU32), os.Stderr)

			fmt.Fprintln(os.Stdout, "--- Loading snapshots ---")
			if err := loader.LoadSnapshots(snapshotDir, sim); err != nil {
				return fmt.Errorf("loading snapshots from %s: %w", snapshotDir, err)
			}

			fmt.Fprintf(os.Stdout, "--- Reading machine code from %s ---\n", program)
			f, err := os.Open(program)
			if err != nil {
				return fmt.Errorf("opening machine-code file: %w", err)
			}
			words, err := loader.LoadMachineCode(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("parsing machine-code file: %w", err)
			}
			if len(words) == 0 {
				fmt.Fprintf(os.Stdout, "warning: machine-code file %s is empty\n", program)
				return nil
			}
			sim.LoadProgram(words)
			fmt.Fprintf(os.Stdout, "Loaded %d instructions.\n", len(words))

			maxStepsInt, err := vm.SafeInt64ToUint32(int64(maxSteps))
			if err != nil {
				return fmt.Errorf("--max-steps: %w", err)
			}
			fmt.Fprintln(os.Stdout, "--- Running simulation ---")
			if err := sim.Run(int(maxStepsInt)); err != nil {
				fmt.Fprintf(os.Stdout, "simulation stopped: %v\n", err)
			}

			fmt.Fprintln(os.Stdout, "--- Saving snapshots ---")
			if err := loader.SaveSnapshots(snapshotDir, sim); err != nil {
				return fmt.Errorf("saving snapshots to %s: %w", snapshotDir, err)
			}
			fmt.Fprintln(os.Stdout, "--- Simulation complete ---")
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "directory of gpr.txt/config.txt/... snapshot files")
	cmd.Flags().StringVar(&program, "program", "", "machine-code file (one 32-char binary string per line)")
	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "maximum instructions to execute (0 = use config default)")
	cmd.Flags().UintVar(&memSize, "mem-size", 0, "backing memory size in bytes (0 = use config default)")
	return cmd
}

// newAssembleCmd implements the two-pass(-ish) assembler of spec.md §4.9 as
// a standalone operation: assembly text in, one 32-bit binary string per
// line out.
func newAssembleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "assemble <input.s>",
		Short: "Assemble a matrix-extension program into machine code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			instructions, errs := parser.ParseAssembly(f, args[0])
			if errs.HasErrors() {
				fmt.Fprint(os.Stderr, errs.Error())
				return fmt.Errorf("assembly failed with %d error(s)", len(errs.Errors))
			}
			fmt.Fprint(os.Stderr, errs.PrintWarnings())

			enc := encoder.NewEncoder()
			words := make([]uint32, 0, len(instructions))
			var encodeErrs []string
			for _, inst := range instructions {
				word, err := enc.EncodeInstruction(inst)
				if err != nil {
					encodeErrs = append(encodeErrs, err.Error())
					continue
				}
				words = append(words, word)
			}
			if len(encodeErrs) > 0 {
				for _, msg := range encodeErrs {
					fmt.Fprintln(os.Stderr, msg)
				}
				return fmt.Errorf("assembly failed with %d encoding error(s)", len(encodeErrs))
			}

			out := os.Stdout
			if output != "" {
				var err error
				out, err = os.Create(output)
				if err != nil {
					return err
				}
				defer out.Close()
			}
			if err := loader.WriteMachineCode(out, words); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Assembled %d instructions.\n", len(words))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output machine-code file (default: stdout)")
	return cmd
}

// newSetupCmd is the non-interactive stand-in for spec.md §6's "interactive
// TTY setup flows" collaborator (out of scope per spec.md §1): it reads
// "reg=value" assignments from stdin, one per line, applies them to a
// Simulator seeded from any existing snapshot files, and saves the result —
// the same two phases (gpr.txt-appropriate assignment, then
// save_state_to_files) as the Python reference's run_interactive_setup,
// minus its line-editor prompt loop.
func newSetupCmd(configPath *string) *cobra.Command {
	var snapshotDir string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Initialize GPR values from stdin assignments (reg=value per line) and save snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if snapshotDir == "" {
				snapshotDir = cfg.Execution.SnapshotDir
			}

			sim := vm.NewSimulator(vm.DefaultMemorySize, os.Stderr)
			if err := loader.LoadSnapshots(snapshotDir, sim); err != nil {
				return fmt.Errorf("loading existing snapshots: %w", err)
			}

			fmt.Fprintln(os.Stdout, "--- Running Setup Mode ---")
			fmt.Fprintln(os.Stdout, "Enter assignments as <reg>=<value> (decimal or 0x-prefixed hex), one per line, EOF to finish:")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			applied := 0
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				name, valStr, ok := strings.Cut(line, "=")
				if !ok {
					fmt.Fprintf(os.Stderr, "ignoring malformed line: %s\n", line)
					continue
				}
				name = strings.ToLower(strings.TrimSpace(name))
				reg, err := isa.GPRCode(name)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%v\n", err)
					continue
				}
				v, err := strconv.ParseUint(strings.TrimSpace(valStr), 0, 32)
				if err != nil {
					fmt.Fprintf(os.Stderr, "invalid value for %s: %v\n", name, err)
					continue
				}
				sim.GPR.Write(reg, uint32(v))
				applied++
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			if err := loader.SaveSnapshots(snapshotDir, sim); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\nSetup complete (%d assignment(s) applied). Run 'matrixsim run' to simulate.\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "directory of snapshot files to seed and rewrite")
	return cmd
}

// newResetCmd implements spec.md §6's --reset: rewrite every snapshot file
// in the directory to its zeroed default.
func newResetCmd(configPath *string) *cobra.Command {
	var snapshotDir string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Rewrite all snapshot files to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if snapshotDir == "" {
				snapshotDir = cfg.Execution.SnapshotDir
			}
			fmt.Fprintln(os.Stdout, "--- Running Reset Mode ---")
			if err := loader.ResetSnapshots(snapshotDir); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Reset complete.")
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "directory of snapshot files to zero")
	return cmd
}

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <input.s>",
		Short: "Check assembly source for encoding errors and style warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			issues := tools.Lint(string(data), args[0])
			for _, issue := range issues {
				fmt.Println(issue.String())
			}
			if tools.HasErrors(issues) {
				return fmt.Errorf("lint found %d issue(s)", len(issues))
			}
			fmt.Printf("%d issue(s) found, no errors.\n", len(issues))
			return nil
		},
	}
	return cmd
}

func newFormatCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "format <input.s>",
		Short: "Reformat assembly source into canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			formatted := tools.Format(string(data))
			if write {
				return os.WriteFile(args[0], []byte(formatted), 0644)
			}
			fmt.Print(formatted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result back to the input file instead of stdout")
	return cmd
}
