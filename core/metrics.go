package core

import "context"

const (
	metricPrefix = "consumers"

	MetricTagOperation = "operation"
	MetricTagStatus    = "status"
	MetricTagErrorKind = "error_kind"

	metricStatusSuccess = "success"
	metricStatusFailure = "failure"
)

// OperationCounterName is the counter bumped once per call:
// consumers.<operation>.total.
func OperationCounterName(operation Operation) string {
	return metricPrefix + "." + operation.String() + ".total"
}

// OperationDurationName is the latency histogram in milliseconds:
// consumers.<operation>.duration_ms.
func OperationDurationName(operation Operation) string {
	return metricPrefix + "." + operation.String() + ".duration_ms"
}

// operationTags always carries operation and status; error_kind is added
// only for failed calls so success series stay low-cardinality.
func operationTags(operation Operation, kind ErrorKind, failed bool) map[string]string {
	tags := map[string]string{
		MetricTagOperation: operation.String(),
		MetricTagStatus:    metricStatusSuccess,
	}
	if failed {
		tags[MetricTagStatus] = metricStatusFailure
		tags[MetricTagErrorKind] = string(kind)
	}
	return tags
}

// NopMetricsRecorder is the default when no recorder is configured.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func cloneTags(tags map[string]string) map[string]string {
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

var _ MetricsRecorder = NopMetricsRecorder{}
