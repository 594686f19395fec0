package service

import (
	"context"
	"errors"
	"time"

	"doccoder-be/internal/config"
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/content"
	"doccoder-be/pkg/language"
	"doccoder-be/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	transformZipName = "transformed-documents.zip"
	reverseZipName   = "converted-files.zip"
	zipMime          = "application/zip"
	orchestratorLog  = "ORCHESTRATOR"
)

// reverseTargets are the formats a PDF can be converted back into.
var reverseTargets = map[codec.Format]bool{
	codec.FormatDOCX: true, codec.FormatTXT: true, codec.FormatImages: true, codec.FormatCSV: true,
	codec.FormatXLSX: true, codec.FormatPPTX: true, codec.FormatJSON: true, codec.FormatXML: true,
	codec.FormatMD: true, codec.FormatRTF: true, codec.FormatPNG: true, codec.FormatJPG: true,
}

type ITransformService interface {
	Transform(ctx context.Context, req *dto.TransformRequest) (*dto.FileResponse, error)
	Reverse(ctx context.Context, req *dto.ReverseTransformRequest) (*dto.FileResponse, error)
}

type transformService struct {
	ai           *ai.Service
	reader       *codec.Reader
	writers      *codec.Registry
	languages    *language.Table
	defaultAlias string
	workers      int
	timeout      time.Duration
	logger       logger.ILogger
	tracer       trace.Tracer
	now          func() time.Time
}

func NewTransformService(
	aiService *ai.Service,
	reader *codec.Reader,
	writers *codec.Registry,
	languages *language.Table,
	defaultAlias string,
	cfg config.OrchestratorConfig,
	log logger.ILogger,
) ITransformService {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &transformService{
		ai:           aiService,
		reader:       reader,
		writers:      writers,
		languages:    languages,
		defaultAlias: defaultAlias,
		workers:      workers,
		timeout:      cfg.RequestTimeout,
		logger:       log,
		tracer:       otel.Tracer("doccoder/orchestrator"),
		now:          time.Now,
	}
}

// task is one file rendered in one language.
type task struct {
	file content.UploadedFile
	lang string
}

type output struct {
	name string
	res  *content.ConversionResult
}

func (s *transformService) alias(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultAlias
}

func (s *transformService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// needsAI reports whether a task goes through the model at all.
func (s *transformService) needsAI(prompt, lang string) bool {
	return prompt != "" || !s.languages.IsDefault(lang)
}

// suffix is the language tag appended to output names.
func (s *transformService) suffix(lang string) string {
	if s.languages.IsDefault(lang) {
		return ""
	}
	return s.languages.Short(lang)
}

func (s *transformService) Transform(ctx context.Context, req *dto.TransformRequest) (*dto.FileResponse, error) {
	if len(req.Files) == 0 {
		return nil, serverutils.NoFiles()
	}

	uiLang := s.languages.DefaultCode()
	if req.TargetLanguage != "" {
		code, ok := s.languages.Canonical(req.TargetLanguage)
		if !ok {
			return nil, serverutils.UnsupportedLanguage(req.TargetLanguage)
		}
		uiLang = code
	}

	var explicit codec.Format
	if req.TargetFormat != "" {
		f, ok := codec.ParseTarget(req.TargetFormat)
		if !ok {
			return nil, serverutils.UnsupportedFormat(req.TargetFormat)
		}
		explicit = f
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	alias := s.alias(req.AiModel)
	meta := s.ai.DetectMetadata(ctx, alias, req.Prompt, uiLang)
	if explicit != "" {
		meta.Format = string(explicit)
	}

	format, ok := codec.ParseTarget(meta.Format)
	if !ok || !s.writers.Has(format) {
		return nil, serverutils.UnsupportedFormat(meta.Format)
	}

	langs := make([]string, 0, len(meta.Langs))
	for _, l := range meta.Langs {
		code, ok := s.languages.Canonical(l)
		if !ok {
			return nil, serverutils.UnsupportedLanguage(l)
		}
		langs = append(langs, code)
	}
	if len(langs) == 0 {
		langs = []string{uiLang}
	}

	tasks := make([]task, 0, len(req.Files)*len(langs))
	for _, f := range req.Files {
		for _, l := range langs {
			tasks = append(tasks, task{file: f, lang: l})
		}
	}

	s.logger.Info(orchestratorLog, "Transform started", map[string]interface{}{
		"request_id": serverutils.RequestIDFrom(ctx),
		"files":      len(req.Files),
		"languages":  langs,
		"format":     format,
	})

	outputs, err := s.run(ctx, tasks, func(ctx context.Context, t task) (*output, error) {
		return s.transformOne(ctx, alias, req, t, format)
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = s.languages.Short(l)
	}
	msg := s.ai.SuccessMessage(ctx, alias, len(outputs), string(format), names)
	return pack(outputs, transformZipName, msg)
}

func (s *transformService) transformOne(ctx context.Context, alias string, req *dto.TransformRequest, t task, format codec.Format) (*output, error) {
	src := codec.Detect(t.file.Name, t.file.MimeType, t.file.Data)
	extracted, err := s.reader.Read(ctx, t.file)
	if err != nil {
		return nil, err
	}

	useAI := s.needsAI(req.Prompt, t.lang)
	langFull := s.languages.Full(t.lang)

	text := extracted.Text
	if extracted.Image != nil && (useAI || format != codec.FormatPDF) {
		text, err = s.ai.OCR(ctx, alias, extracted.Image)
		if err != nil {
			return nil, err
		}
	}

	in := codec.WriteInput{
		Name:       utils.OutputName(t.file.Name, s.suffix(t.lang), ""),
		SourceName: t.file.Name,
	}

	if format == codec.FormatPDF {
		in.PDF = codec.PDFOptions{
			Theme:       codec.Theme(req.Template.Id),
			Landscape:   req.Template.Orientation == "landscape",
			Code:        src == codec.FormatCode,
			Spreadsheet: src == codec.FormatXLSX || src == codec.FormatCSV,
		}
		if req.Template.Margin != nil {
			in.PDF.Margin = *req.Template.Margin
		}

		switch {
		case useAI:
			translated, err := s.ai.Translate(ctx, alias, text, langFull, req.Prompt)
			if err != nil {
				return nil, err
			}
			in.Text = translated
		case extracted.Image != nil:
			in.PDF.Image = extracted.Image
		case src == codec.FormatPDF:
			in.PDF.SourcePDF = t.file.Data
		default:
			in.Text = text
		}

		if req.Prompt != "" {
			in.PDF.CoverLine = s.ai.CoverTitle(ctx, alias, t.file.Name, req.Prompt)
		}
	} else if useAI {
		if len(extracted.Tables) > 0 && (format == codec.FormatDOCX || format == codec.FormatXLSX) {
			in.Pipeline = s.ai.TranslatePipeline(ctx, alias, text, "auto", langFull, string(format))
		} else {
			in.Structured = s.ai.TranslateStructured(ctx, alias, text, langFull, t.lang, req.Prompt)
		}
	} else {
		in.Text = text
	}

	res, err := s.writers.Write(ctx, format, in)
	if err != nil {
		return nil, err
	}
	return &output{
		name: utils.OutputName(t.file.Name, s.suffix(t.lang), utils.Ext(res.SuggestedName)),
		res:  res,
	}, nil
}

func (s *transformService) Reverse(ctx context.Context, req *dto.ReverseTransformRequest) (*dto.FileResponse, error) {
	if len(req.Files) == 0 {
		return nil, serverutils.NoFiles()
	}

	format, ok := codec.ParseTarget(req.TargetFormat)
	if !ok || !reverseTargets[format] {
		return nil, serverutils.UnsupportedFormat(req.TargetFormat)
	}

	lang := s.languages.DefaultCode()
	if req.TargetLanguage != "" {
		code, ok := s.languages.Canonical(req.TargetLanguage)
		if !ok {
			return nil, serverutils.UnsupportedLanguage(req.TargetLanguage)
		}
		lang = code
	}

	for _, f := range req.Files {
		if !codec.IsPDF(f.Name, f.MimeType, f.Data) {
			return nil, serverutils.InvalidSource(f.Name)
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	alias := s.alias(req.AiModel)
	tasks := make([]task, 0, len(req.Files))
	for _, f := range req.Files {
		tasks = append(tasks, task{file: f, lang: lang})
	}

	outputs, err := s.run(ctx, tasks, func(ctx context.Context, t task) (*output, error) {
		return s.reverseOne(ctx, alias, req, t, format)
	})
	if err != nil {
		return nil, err
	}

	msg := s.ai.SuccessMessage(ctx, alias, len(outputs), string(format), []string{s.languages.Short(lang)})
	return pack(outputs, reverseZipName, msg)
}

func (s *transformService) reverseOne(ctx context.Context, alias string, req *dto.ReverseTransformRequest, t task, format codec.Format) (*output, error) {
	extracted, err := s.reader.Read(ctx, t.file)
	if err != nil {
		return nil, err
	}

	text := codec.FormatExtracted(extracted)
	if s.needsAI(req.Prompt, t.lang) {
		text, err = s.ai.Translate(ctx, alias, text, s.languages.Full(t.lang), req.Prompt)
		if err != nil {
			return nil, err
		}
	}

	res, err := s.writers.Write(ctx, format, codec.WriteInput{
		Name:       utils.OutputName(t.file.Name, s.suffix(t.lang), ""),
		SourceName: t.file.Name,
		Text:       text,
		Provenance: &codec.Provenance{
			SourceName:  t.file.Name,
			PageCount:   extracted.Metadata.PageCount,
			ConvertedAt: s.now(),
		},
	})
	if err != nil {
		return nil, err
	}
	return &output{
		name: utils.OutputName(t.file.Name, s.suffix(t.lang), utils.Ext(res.SuggestedName)),
		res:  res,
	}, nil
}

// run executes tasks on a bounded group. Results keep task order. The first
// failure cancels the rest and is reported against its file.
func (s *transformService) run(ctx context.Context, tasks []task, fn func(context.Context, task) (*output, error)) ([]*output, error) {
	outputs := make([]*output, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return serverutils.ProcessInterrupt(t.file.Name, err)
			}

			tctx, span := s.tracer.Start(gctx, "transform.task", trace.WithAttributes(
				attribute.String("file", t.file.Name),
				attribute.String("language", t.lang),
			))
			defer span.End()

			start := time.Now()
			out, err := fn(tctx, t)
			fields := map[string]interface{}{
				"request_id":  serverutils.RequestIDFrom(ctx),
				"file":        t.file.Name,
				"language":    t.lang,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				fields["error"] = err.Error()
				s.logger.Error(orchestratorLog, "Task failed", fields)

				var appErr *serverutils.AppError
				if errors.As(err, &appErr) {
					return appErr
				}
				return serverutils.ProcessInterrupt(t.file.Name, err)
			}

			s.logger.Info(orchestratorLog, "Task completed", fields)
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// pack returns a lone result as is and zips several.
func pack(outputs []*output, zipName, message string) (*dto.FileResponse, error) {
	lowFidelity := false
	for _, o := range outputs {
		lowFidelity = lowFidelity || o.res.LowFidelity
	}

	if len(outputs) == 1 {
		return &dto.FileResponse{
			Name:             outputs[0].name,
			MimeType:         outputs[0].res.MimeType,
			Bytes:            outputs[0].res.Bytes,
			AssistantMessage: message,
			LowFidelity:      lowFidelity,
		}, nil
	}

	names := utils.NewDeduper()
	entries := make([]codec.Entry, 0, len(outputs))
	for _, o := range outputs {
		entries = append(entries, codec.Entry{Name: names.Unique(o.name), Data: o.res.Bytes})
	}
	data, err := codec.Zip(entries)
	if err != nil {
		return nil, err
	}
	return &dto.FileResponse{
		Name:             zipName,
		MimeType:         zipMime,
		Bytes:            data,
		AssistantMessage: message,
		LowFidelity:      lowFidelity,
	}, nil
}
