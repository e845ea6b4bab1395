package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakeCloudWatch) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, in := range f.inputs {
		for _, d := range in.MetricData {
			out = append(out, aws.ToString(d.MetricName))
		}
	}
	return out
}

func TestCloudWatchDisabledOutsideProduction(t *testing.T) {
	c, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	c.RecordAPIRequest(context.Background(), "/health", 200, time.Millisecond)
	c.Wait()
	assert.False(t, c.enabled)
}

func TestCloudWatchRecords(t *testing.T) {
	fake := &fakeCloudWatch{}
	c := NewClientWithAPI(fake, "production")

	c.RecordAPIRequest(context.Background(), "/generate-melody/", 200, 12*time.Millisecond)
	c.RecordAPIRequest(context.Background(), "/generate-melody/", 500, 3*time.Millisecond)
	c.RecordGeneration(context.Background(), "melody", "jazz", 40, 2*time.Millisecond)
	c.Wait()

	assert.ElementsMatch(t, []string{
		"APIRequests", "APILatency",
		"APIErrors", "APILatency",
		"GenerationDuration", "GeneratedNotes",
	}, fake.names())
	for _, in := range fake.inputs {
		assert.Equal(t, namespace, aws.ToString(in.Namespace))
	}
}

type countingRecorder struct {
	requests, generations int
}

func (c *countingRecorder) RecordAPIRequest(context.Context, string, int, time.Duration) {
	c.requests++
}

func (c *countingRecorder) RecordGeneration(context.Context, string, string, int, time.Duration) {
	c.generations++
}

func TestFanout(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	f := Fanout{a, Nop{}, b, NewSentryMetrics()}

	f.RecordAPIRequest(context.Background(), "/", 200, time.Millisecond)
	f.RecordGeneration(context.Background(), "progression", "pop", 4, time.Millisecond)
	f.RecordGeneration(context.Background(), "melody", "pop", 30, time.Millisecond)

	assert.Equal(t, 1, a.requests)
	assert.Equal(t, 2, b.generations)
}
