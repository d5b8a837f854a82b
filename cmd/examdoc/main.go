package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/examdoc/internal/assets"
	"github.com/pavelanni/examdoc/internal/convert"
	"github.com/pavelanni/examdoc/internal/export"
	appI18n "github.com/pavelanni/examdoc/internal/i18n"
	"github.com/pavelanni/examdoc/internal/model"
	"github.com/pavelanni/examdoc/internal/pdftext"
	"github.com/pavelanni/examdoc/internal/report"
	"github.com/pavelanni/examdoc/internal/rules"
	"github.com/pavelanni/examdoc/internal/store"
	"github.com/pavelanni/examdoc/internal/validate"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examdoc",
		Short: "Convert Moodle attempt-review PDFs into canonical JSON and HTML reports",
	}
	root.AddCommand(parseCmd(), validateCmd(), renderCmd(), batchCmd(), exportCmd(), serveCmd())
	return root
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Convert one PDF into a canonical JSON document",
		RunE:  runParse,
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "Input PDF path (required)")
	f.StringP("out", "o", "", "Output JSON path (default: input with .json extension)")
	f.String("assets-out", "", "Directory for rendered page images (empty disables asset capture)")
	f.String("rules", "", "Rule table YAML path (default: embedded table)")
	addLogFlags(f)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a canonical JSON document against the schema",
		RunE:  runValidate,
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "Input JSON path (required)")
	f.String("schema", "", "Schema path (default: embedded schema)")
	addLogFlags(f)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a canonical JSON document as an HTML review page",
		RunE:  runRender,
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "Input JSON path (required)")
	f.StringP("out", "o", "", "Output HTML path (default: input with .html extension)")
	f.StringP("lang", "l", "es", "Report language (es, en)")
	addLogFlags(f)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every PDF in a directory",
		RunE:  runBatch,
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "Input directory of PDFs (required)")
	f.StringP("out", "o", "", "Output directory for JSON documents (required)")
	f.String("assets-out", "", "Directory for rendered page images (empty disables asset capture)")
	f.String("rules", "", "Rule table YAML path (default: embedded table)")
	f.String("catalog", "", "SQLite catalog path; unchanged inputs are skipped")
	addLogFlags(f)
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a grading summary spreadsheet from converted documents",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "Directory of canonical JSON documents (required)")
	f.StringP("out", "o", "summary.xlsx", "Output XLSX path")
	addLogFlags(f)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory of generated reports over HTTP",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("dir", "d", ".", "Directory to serve")
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	addLogFlags(f)
	return cmd
}

func addLogFlags(f *pflag.FlagSet) {
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examdoc")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examdoc")
	v.AddConfigPath("/etc/examdoc")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runParse(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	table, err := rules.Load(v.GetString("rules"))
	if err != nil {
		return fmt.Errorf("load rule table: %w", err)
	}

	inPath := v.GetString("in")
	outPath := v.GetString("out")
	if outPath == "" {
		outPath = replaceExt(inPath, ".json")
	}

	doc, err := convertFile(table, inPath, v.GetString("assets-out"))
	if err != nil {
		return err
	}
	if err := writeDocument(doc, outPath); err != nil {
		return err
	}
	slog.Info("converted document",
		"in", inPath,
		"out", outPath,
		"pages", doc.Source.PageCount,
		"questions", len(doc.Questions),
	)
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	inPath := v.GetString("in")
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	if err := validate.Bytes(data, v.GetString("schema")); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			for _, violation := range verr.Violations {
				fmt.Fprintln(os.Stderr, violation)
			}
		}
		return fmt.Errorf("validate %s: %w", inPath, err)
	}
	slog.Info("document is valid", "path", inPath)
	return nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	inPath := v.GetString("in")
	outPath := v.GetString("out")
	if outPath == "" {
		outPath = replaceExt(inPath, ".html")
	}
	lang := v.GetString("lang")

	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}
	var doc model.ExamDocument
	if err := unmarshalDocument(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", inPath, err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(lang))
	if err := report.Write(ctx, f, &doc, lang); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	slog.Info("rendered report", "in", inPath, "out", outPath, "lang", lang)
	return nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	table, err := rules.Load(v.GetString("rules"))
	if err != nil {
		return fmt.Errorf("load rule table: %w", err)
	}

	var catalog *store.Store
	if path := v.GetString("catalog"); path != "" {
		catalog, err = store.New(path)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer catalog.Close()
	}

	inDir := v.GetString("in")
	outDir := v.GetString("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}

	var converted, skipped, failed int
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		inPath := filepath.Join(inDir, e.Name())
		outPath := filepath.Join(outDir, replaceExt(e.Name(), ".json"))

		var hash string
		if catalog != nil {
			data, err := os.ReadFile(inPath)
			if err != nil {
				slog.Error("read input", "path", inPath, "error", err)
				failed++
				continue
			}
			hash = sha256sum(data)
			storedHash, err := catalog.GetSourceHash(inPath)
			if err != nil {
				return fmt.Errorf("check catalog for %s: %w", inPath, err)
			}
			if storedHash == hash {
				slog.Info("input unchanged, skipping", "path", inPath)
				skipped++
				continue
			}
		}

		doc, err := convertFile(table, inPath, docAssetsDir(v.GetString("assets-out"), e.Name()))
		if err != nil {
			slog.Error("convert failed", "path", inPath, "error", err)
			failed++
			continue
		}
		if err := writeDocument(doc, outPath); err != nil {
			slog.Error("write failed", "path", outPath, "error", err)
			failed++
			continue
		}

		if catalog != nil {
			err := catalog.RecordConversion(store.Conversion{
				SourcePath:    inPath,
				SourceHash:    hash,
				PageCount:     doc.Source.PageCount,
				QuestionCount: len(doc.Questions),
				IssueCount:    countIssues(doc),
				OutputPath:    outPath,
				ProcessedAt:   time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("record conversion for %s: %w", inPath, err)
			}
		}

		slog.Info("converted document",
			"in", inPath,
			"out", outPath,
			"questions", len(doc.Questions),
		)
		converted++
	}

	slog.Info("batch finished", "converted", converted, "skipped", skipped, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, converted+skipped+failed)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	inDir := v.GetString("in")
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}

	var docs []*model.ExamDocument
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		path := filepath.Join(inDir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var doc model.ExamDocument
		if err := unmarshalDocument(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		docs = append(docs, &doc)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no JSON documents found in %s", inDir)
	}

	xlsx, err := export.GradingSummaryXLSX(docs, slog.Default())
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}

	outPath := v.GetString("out")
	if err := os.WriteFile(outPath, xlsx, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	slog.Info("exported grading summary", "out", outPath, "documents", len(docs))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	dir := v.GetString("dir")
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("serve dir: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	addr := v.GetString("addr")
	slog.Info("starting preview server", "addr", addr, "dir", dir)
	return http.ListenAndServe(addr, r)
}

// convertFile runs the full pipeline for one PDF: text extraction,
// normalization, conversion, schema validation.
func convertFile(table *rules.Table, inPath, assetsDir string) (*model.ExamDocument, error) {
	rawPages, err := pdftext.ExtractPages(inPath)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", inPath, err)
	}
	pages := make([]string, len(rawPages))
	for i, p := range rawPages {
		pages[i] = pdftext.Normalize(p)
	}

	var renderer convert.AssetRenderer
	if assetsDir != "" {
		ar, err := assets.NewRenderer(inPath, assetsDir)
		if err != nil {
			return nil, fmt.Errorf("open %s for rendering: %w", inPath, err)
		}
		defer ar.Close()
		renderer = ar
	}

	conv := convert.New(table, renderer, slog.Default())
	doc := conv.Convert(filepath.Base(inPath), pages)

	if err := validate.Document(doc, ""); err != nil {
		return nil, fmt.Errorf("validate output for %s: %w", inPath, err)
	}
	return doc, nil
}

// writeDocument marshals the canonical record with fixed field order and
// a trailing newline so repeated runs are byte-identical.
func writeDocument(doc *model.ExamDocument, outPath string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

func unmarshalDocument(data []byte, doc *model.ExamDocument) error {
	return json.Unmarshal(data, doc)
}

func countIssues(doc *model.ExamDocument) int {
	n := len(doc.Issues)
	for _, q := range doc.Questions {
		n += len(q.Issues)
	}
	return n
}

// docAssetsDir returns the per-document asset directory for a batch run.
// Question IDs repeat across documents (every exam has a Q1), so each
// document gets its own subdirectory named after the file stem.
func docAssetsDir(baseDir, fileName string) string {
	if baseDir == "" {
		return ""
	}
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return filepath.Join(baseDir, stem)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
