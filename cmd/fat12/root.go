package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aligator/fat12"
	"github.com/aligator/fat12/internal/display"
	"github.com/aligator/fat12/internal/imagefile"
	"github.com/aligator/fat12/internal/logger"
)

// options of the root command.
type options struct {
	rawName  bool
	strict   bool
	format   string
	quiet    bool
	output   string
	logLevel string

	fs     afero.Fs
	logger *zap.Logger
}

// newRootCommand creates the fat12 command reading images from fs.
func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := &options{fs: fs}

	cmd := &cobra.Command{
		Use:   "fat12 [flags] IMAGE_FILE FILE_NAME",
		Short: "extracts a file from the root directory of a FAT12 image",
		Long: `fat12 prints the boot sector and the root directory of a FAT12
disk image, then looks up FILE_NAME in the root directory and prints
its contents. Non printable bytes are shown as <xx>.

The image may be compressed with zstd, gzip or xz.`,
		Example:       "  fat12 floppy.img README.TXT",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case display.FormatText, display.FormatJSON, display.FormatYAML:
			default:
				return fmt.Errorf("unsupported --format %q (supported: text, json, yaml)", opts.format)
			}

			log, err := logger.New(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = log

			// Arguments are fine, failures from here on are not usage errors.
			cmd.SilenceUsage = true

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.logger.Sync() //nolint:errcheck

			return opts.execute(cmd, args[0], args[1])
		},
	}

	opts.addFlags(cmd.Flags())

	return cmd
}

func (o *options) addFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.rawName, "raw-name", false,
		`Look FILE_NAME up as given instead of converting it to the padded 8.3 form (e.g. "HELLO   TXT")`)
	flags.BoolVar(&o.strict, "strict", false,
		"Fail if the cluster chain ends before the file size is reached")
	flags.StringVar(&o.format, "format", display.FormatText,
		"Output format: text, json or yaml")
	flags.BoolVarP(&o.quiet, "quiet", "q", false,
		"Only print the file contents (text format)")
	flags.StringVarP(&o.output, "output", "o", "",
		"Write the raw file contents to this path instead of printing them")
	flags.StringVar(&o.logLevel, "log-level", logger.DefaultLevel,
		"Log level: debug, info, warn or error")
}

func (o *options) execute(cmd *cobra.Command, imagePath, filename string) error {
	out := cmd.OutOrStdout()
	text := o.format == display.FormatText && !o.quiet

	image, err := imagefile.Open(o.fs, imagePath, o.logger)
	if err != nil {
		return fmt.Errorf("cannot open disk image %q: %w", imagePath, err)
	}
	defer image.Close() //nolint:errcheck

	session, err := fat12.Open(image, fat12.WithLogger(o.logger), fat12.WithRawNames(o.rawName))
	if err != nil {
		return err
	}

	if text {
		display.PrintBootSector(out, session.BootSector())
		fmt.Fprintln(out)
		display.PrintRootDirectory(out, session.RootDirectory())
		fmt.Fprintln(out)
	}

	name, err := session.ShortName(filename)
	if err != nil {
		return err
	}

	if text {
		display.PrintSearching(out, name)
	}

	entry, err := session.Lookup(filename)
	if err != nil {
		return err
	}

	if text {
		display.PrintFileFound(out, entry)
	}

	data, err := session.ExtractEntry(entry)
	truncated := errors.Is(err, fat12.ErrTruncatedFile)
	if err != nil && (!truncated || o.strict) {
		return err
	}

	if o.output != "" {
		if err := afero.WriteFile(o.fs, o.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", o.output, err)
		}

		o.logger.Info("wrote file", zap.String("path", o.output), zap.Int("size", len(data)))
	}

	switch o.format {
	case display.FormatText:
		if o.output != "" {
			return nil
		}

		if o.quiet {
			fmt.Fprintln(out, display.Escape(data))
		} else {
			display.PrintContents(out, data)
		}

		return nil

	default:
		summary := display.NewVolumeSummary(session)
		summary.File = &display.FileSummary{
			Name:      filename,
			ShortName: string(name[:]),
			Size:      entry.FileSize,
			Read:      len(data),
			Truncated: truncated,
		}

		if o.output == "" {
			summary.File.Content = display.Escape(data)
		}

		return display.WriteSummary(out, summary, o.format)
	}
}
