package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"attorneypredict/claim"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// option 下拉框选项
type option struct {
	Value    int
	Label    string
	Selected bool
}

// formField 表单控件
type formField struct {
	claim.Field
	Value   string
	Options []option
	Step    string
	MaxAttr string
}

type resultView struct {
	Message    string
	Color      string
	Confidence string
}

type summaryRow struct {
	Label string
	Value string
}

type pageData struct {
	Fields  []formField
	Result  *resultView
	Error   string
	Summary []summaryRow
}

// RegisterFormHandlers 注册表单页面
func RegisterFormHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /predict", handleFormPredict)
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, pageData{Fields: buildFormFields(claim.Defaults())})
}

func handleFormPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, bodyStatus(err), pageData{
			Fields: buildFormFields(claim.Defaults()),
			Error:  "could not read the submitted form",
		})
		return
	}

	record, err := claim.FromForm(r.PostForm)
	if err != nil {
		renderPage(w, statusFor(err), pageData{
			Fields: buildFormFields(claim.Defaults()),
			Error:  err.Error(),
		})
		return
	}

	data := pageData{Fields: buildFormFields(record), Summary: buildSummary(record)}
	prediction, outcome, err := predict(r.Context(), record)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("prediction failed",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.Error(err))
		}
		data.Error = predictionErrorMessage(err)
		renderPage(w, status, data)
		return
	}

	data.Result = &resultView{
		Message:    "Prediction: " + outcome.Message,
		Color:      outcome.Color,
		Confidence: strconv.FormatFloat(prediction.Confidence*100, 'f', 1, 64) + "%",
	}
	renderPage(w, http.StatusOK, data)
}

func predictionErrorMessage(err error) string {
	if errors.Is(err, errModelUnavailable) {
		return "The prediction model is not available."
	}
	return "Prediction failed: " + err.Error()
}

func buildFormFields(record claim.Record) []formField {
	fields := claim.Fields()
	out := make([]formField, len(fields))
	for i, f := range fields {
		ff := formField{Field: f}
		value := record[f.Name]
		switch f.Kind {
		case claim.KindChoice:
			selected, _ := value.(int)
			for _, c := range f.Choices {
				ff.Options = append(ff.Options, option{Value: c.Value, Label: c.Label, Selected: c.Value == selected})
			}
		case claim.KindInteger:
			ff.Step = "1"
			ff.Value = formatValue(value)
		case claim.KindFloat:
			ff.Step = "0.01"
			ff.Value = formatValue(value)
		default:
			ff.Value = formatValue(value)
		}
		if f.HasMax() {
			ff.MaxAttr = strconv.FormatFloat(f.Max, 'f', -1, 64)
		}
		out[i] = ff
	}
	return out
}

func buildSummary(record claim.Record) []summaryRow {
	fields := claim.Fields()
	rows := make([]summaryRow, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, summaryRow{Label: f.Label, Value: claim.Display(f, record[f.Name])})
	}
	return rows
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logger.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
