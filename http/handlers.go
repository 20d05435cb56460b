package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"attorneypredict/claim"
	"attorneypredict/metrics"
	"attorneypredict/ml"
)

// ModelInfo 已加载模型的描述信息
type ModelInfo struct {
	ModelType      string   `json:"model_type"`
	Path           string   `json:"path"`
	FeatureNames   []string `json:"feature_names"`
	Classes        []int    `json:"classes"`
	OnMissingField string   `json:"on_missing_field"`
}

var (
	logger        = zap.NewNop()
	modelProvider ml.ModelProvider
	modelInfo     ModelInfo
)

var errModelUnavailable = errors.New("model not loaded")

// SetLogger 设置日志记录器
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// SetModelProvider 设置预测器
func SetModelProvider(provider ml.ModelProvider) {
	modelProvider = provider
}

// SetModelInfo 设置模型描述信息
func SetModelInfo(info ModelInfo) {
	modelInfo = info
}

// RegisterHandlers 注册JSON接口
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/fields", handleFields)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("GET /api/model", handleModel)
	mux.HandleFunc("POST /api/predict", handlePredict)
	mux.Handle("GET /metrics", promhttp.Handler())
}

type predictResponse struct {
	claim.Outcome
	Confidence float64 `json:"confidence"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if modelProvider == nil {
		status = "model_unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func handleFields(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, claim.Fields())
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, claim.Schema())
}

func handleModel(w http.ResponseWriter, r *http.Request) {
	if modelProvider == nil {
		respondError(w, http.StatusServiceUnavailable, errModelUnavailable.Error())
		return
	}
	respondJSON(w, http.StatusOK, modelInfo)
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeClaim(r.Body)
	if err != nil {
		respondError(w, bodyStatus(err), err.Error())
		return
	}

	record, err := claim.FromJSON(doc)
	if err != nil {
		writePredictError(w, r, err)
		return
	}

	prediction, outcome, err := predict(r.Context(), record)
	if err != nil {
		writePredictError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, predictResponse{
		Outcome:    outcome,
		Confidence: prediction.Confidence,
	})
}

// decodeClaim 读取唯一的JSON对象，拒绝其后的多余数据
func decodeClaim(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if doc == nil {
		return nil, errors.New("claim must be a JSON object")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return nil, errors.New("invalid JSON body: unexpected data after the claim object")
	}
	return doc, nil
}

// bodyStatus 请求体超过大小限制时返回413，其余读取错误返回400
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// predict 是展示层与模型之间唯一的调用边界：记录进，标签出
func predict(ctx context.Context, record claim.Record) (*ml.Prediction, claim.Outcome, error) {
	if modelProvider == nil {
		return nil, claim.Outcome{}, errModelUnavailable
	}

	start := time.Now()
	prediction, err := modelProvider.Predict(ctx, record)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(errorReason(err)).Inc()
		return nil, claim.Outcome{}, err
	}

	outcome := claim.OutcomeFor(prediction.Label)
	if outcome.Involved {
		metrics.Predictions.WithLabelValues("involved").Inc()
	} else {
		metrics.Predictions.WithLabelValues("not_involved").Inc()
	}
	return prediction, outcome, nil
}

func writePredictError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
	}

	resp := errorResponse{Error: err.Error()}
	var validationErr *claim.ValidationError
	if errors.As(err, &validationErr) {
		resp.Problems = validationErr.Problems
	}
	respondJSON(w, status, resp)
}

func statusFor(err error) int {
	var validationErr *claim.ValidationError
	var fieldErr *claim.FieldError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case errors.Is(err, ml.ErrSchemaMismatch), errors.Is(err, ml.ErrMissingFeature):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ml.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ml.ErrMissingFeature):
		return "missing_feature"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
