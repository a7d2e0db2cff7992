// cmd/tack/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tack/internal/commit"
	"tack/internal/config"
	"tack/internal/diff"
	"tack/internal/logging"
	"tack/internal/repo"
	shared "tack/shared/types"
)

var rootCmd = &cobra.Command{
	Use:   "tack",
	Short: "Tack is a minimal content-addressable version control store",
	Long: `Tack records file snapshots in a content-addressable object store,
groups them into immutable commits linked into a linear history, and
renders line-level differences between a commit and its parent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tack repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := repo.Init(dir); err != nil {
				return fmt.Errorf("initializing repository: %w", err)
			}

			fmt.Println("Initialized empty tack repository in", dir)
			return nil
		},
	}

	var addCmd = &cobra.Command{
		Use:   "add <file>",
		Short: "Stage a file's content for the next commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			if _, err := r.Add(args[0]); err != nil {
				return err
			}

			fmt.Printf("Added file: %s\n", args[0])
			return nil
		},
	}

	var commitCmd = &cobra.Command{
		Use:   "commit <message...>",
		Short: "Create a commit from the staged entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			digest, err := r.Commit(strings.Join(args, " "))
			if err != nil {
				if errors.Is(err, commit.ErrNoStagedChanges) {
					return errors.New("No changes added to commit")
				}
				return err
			}

			fmt.Printf("Commit successfully created: %s\n", digest)
			return nil
		},
	}

	var logCmd = &cobra.Command{
		Use:   "log",
		Short: "Print the commit chain from HEAD to the root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			entries, truncated, err := r.Log()
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No commits yet")
				return nil
			}

			yellow := color.New(color.FgYellow).SprintFunc()
			for _, entry := range entries {
				fmt.Printf("%s\n", yellow("commit "+entry.Digest))
				fmt.Printf("Date:    %s\n", entry.Commit.Timestamp.Format("Mon Jan 2 15:04:05 2006 -0700"))
				fmt.Printf("\n    %s\n\n", entry.Commit.Message)
			}

			if truncated {
				fmt.Println("(history truncated: parent commit object missing)")
			}
			return nil
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff <commit-hash>",
		Short: "Show per-file changes in a commit against its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			diffs, err := r.Diff(args[0])
			if err != nil {
				return err
			}

			printDiffs(diffs)
			return nil
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			changes, err := r.Status()
			if err != nil {
				return err
			}

			printStatus(changes)
			return nil
		},
	}

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Report working tree changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			watcher, err := r.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			fmt.Println("Watching for changes (Ctrl-C to stop)")
			for {
				select {
				case <-stop:
					return nil
				case event, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					fmt.Printf("%s  %s\n", event.Op, event.Path)
				}
			}
		},
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
}

// openRepo locates the repository containing the working directory and wires
// a logger from its settings.
func openRepo() (*repo.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	root, err := repo.FindRoot(cwd)
	if err != nil {
		return nil, err
	}

	settings, settingsErr := config.LoadSettings(config.Layout{Root: root}.SettingsFile())

	logger, err := logging.New(settings.LogLevel)
	if err != nil {
		logger = zap.NewNop()
	}
	if settingsErr != nil {
		logger.Warn("ignoring unreadable settings file", zap.Error(settingsErr))
	}

	return repo.Open(cwd, settings, logger)
}

func printDiffs(diffs []repo.FileDiff) {
	header := color.New(color.FgCyan)

	for _, fd := range diffs {
		header.Printf("diff --tack a/%s b/%s\n", fd.Path, fd.Path)

		switch fd.Status {
		case repo.FileNoParent:
			fmt.Println("first commit, no parent to diff against")
		case repo.FileNew:
			fmt.Println("(new file in this commit)")
		case repo.FileParentMissing:
			fmt.Println("(parent commit object missing)")
		case repo.FileObjectMissing:
			fmt.Println("(object missing)")
		case repo.FileChanged:
			printColoredRuns(fd)
		}
		fmt.Println()
	}
}

func printColoredRuns(fd repo.FileDiff) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, run := range fd.Runs {
		for _, line := range run.Lines {
			switch run.Kind {
			case diff.Added:
				added.Println("+ " + line)
			case diff.Removed:
				removed.Println("- " + line)
			default:
				fmt.Println("  " + line)
			}
		}
	}
}

func printStatus(changes []shared.Change) {
	if len(changes) == 0 {
		fmt.Println("No changes detected (working tree clean)")
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var staged, modified, untracked, deleted []shared.Change
	for _, c := range changes {
		switch c.State {
		case "staged":
			staged = append(staged, c)
		case "modified":
			modified = append(modified, c)
		case "untracked":
			untracked = append(untracked, c)
		case "deleted":
			deleted = append(deleted, c)
		}
	}

	if len(staged) > 0 {
		fmt.Println("Changes staged for commit:")
		for _, c := range staged {
			fmt.Printf("\t%s %s\n", green("A"), c.Path)
		}
		fmt.Println()
	}
	if len(modified) > 0 {
		fmt.Println("Modified files:")
		fmt.Println("  (use \"tack add <file>\" to stage)")
		for _, c := range modified {
			fmt.Printf("\t%s %s\n", yellow("M"), c.Path)
		}
		fmt.Println()
	}
	if len(untracked) > 0 {
		fmt.Println("Untracked files:")
		fmt.Println("  (use \"tack add <file>\" to stage)")
		for _, c := range untracked {
			fmt.Printf("\t%s %s\n", blue("?"), c.Path)
		}
		fmt.Println()
	}
	if len(deleted) > 0 {
		fmt.Println("Deleted files:")
		for _, c := range deleted {
			fmt.Printf("\t%s %s\n", red("D"), c.Path)
		}
		fmt.Println()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
