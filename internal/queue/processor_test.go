package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/analysis"
)

type fakeAnalyzer struct {
	last analysis.Input
	err  error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, in analysis.Input) (*analysis.Result, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &analysis.Result{ID: "analysis-1", Source: in.Source}, nil
}

type fakeLoader map[string][]byte

func (f fakeLoader) Load(_ context.Context, location string) ([]byte, error) {
	data, ok := f[location]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

type fakeFetcher string

func (f fakeFetcher) Fetch(context.Context, string) (string, error) {
	return string(f), nil
}

type recordedPublish struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	published []recordedPublish
}

func (f *fakePublisher) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.published = append(f.published, recordedPublish{exchange: exchange, key: key, msg: msg})
	return nil
}

func newProcessor(a *fakeAnalyzer) *Processor {
	p := NewProcessor(a, fakeLoader{"s3://resumes/jane.txt": []byte("Jane Doe python")}, fakeFetcher("python sql"), nil)
	p.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "text", body: `{"resume_text": "Jane", "job_description": "python"}`},
		{name: "location and url", body: `{"resume_location": "s3://b/k", "job_url": "https://example.com/job"}`},
		{name: "missing resume", body: `{"job_description": "python"}`, wantErr: "(root)"},
		{name: "unknown field", body: `{"resume_text": "x", "extra": 1}`, wantErr: "extra"},
		{name: "bad url", body: `{"resume_text": "x", "job_url": "ftp://example.com"}`, wantErr: "job_url"},
		{name: "wrong type", body: `{"resume_text": 42}`, wantErr: "resume_text"},
		{name: "not json", body: `{`, wantErr: "invalid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest([]byte(tt.body))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcessText(t *testing.T) {
	a := &fakeAnalyzer{}

	resp := newProcessor(a).Process(context.Background(), []byte(`{"request_id": "r1", "resume_text": "Jane Doe", "job_description": "python"}`))

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Equal(t, "r1", resp.RequestID)
	assert.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "analysis-1", resp.Result.ID)
	assert.Equal(t, analysis.Input{ResumeText: "Jane Doe", JobDescription: "python"}, a.last)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), resp.Timestamp)
}

func TestProcessLocationAndURL(t *testing.T) {
	a := &fakeAnalyzer{}

	resp := newProcessor(a).Process(context.Background(), []byte(`{"resume_location": "s3://resumes/jane.txt", "job_url": "https://jobs.example.com/1"}`))

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, analysis.Input{
		Source:         "s3://resumes/jane.txt",
		ResumeText:     "Jane Doe python",
		JobDescription: "python sql",
	}, a.last)
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		analyzer *fakeAnalyzer
		wantErr  string
	}{
		{name: "schema", body: `{"request_id": "r2"}`, analyzer: &fakeAnalyzer{}, wantErr: "does not match schema"},
		{name: "missing object", body: `{"request_id": "r2", "resume_location": "s3://resumes/none"}`, analyzer: &fakeAnalyzer{}, wantErr: "load resume"},
		{name: "analysis", body: `{"request_id": "r2", "resume_text": " "}`, analyzer: &fakeAnalyzer{err: analysis.ErrEmptyResume}, wantErr: "could not extract text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newProcessor(tt.analyzer).Process(context.Background(), []byte(tt.body))
			assert.Equal(t, StatusFailed, resp.Status)
			assert.Equal(t, "r2", resp.RequestID)
			assert.Contains(t, resp.Error, tt.wantErr)
			assert.Nil(t, resp.Result)
		})
	}
}

func TestReply(t *testing.T) {
	resp := Response{RequestID: "r1", Status: StatusCompleted, Timestamp: time.Unix(0, 0).UTC()}

	t.Run("reply-to queue wins", func(t *testing.T) {
		pub := &fakePublisher{}
		require.NoError(t, Reply(pub, "results", "amq.gen-123", "corr-9", resp))

		require.Len(t, pub.published, 1)
		got := pub.published[0]
		assert.Equal(t, "", got.exchange)
		assert.Equal(t, "amq.gen-123", got.key)
		assert.Equal(t, "corr-9", got.msg.CorrelationId)
		assert.Equal(t, "application/json", got.msg.ContentType)

		var decoded Response
		require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
		assert.Equal(t, "r1", decoded.RequestID)
	})

	t.Run("results exchange", func(t *testing.T) {
		pub := &fakePublisher{}
		require.NoError(t, Reply(pub, "results", "", "", resp))

		require.Len(t, pub.published, 1)
		assert.Equal(t, "results", pub.published[0].exchange)
		assert.Equal(t, "analysis.completed", pub.published[0].key)
		assert.Equal(t, "r1", pub.published[0].msg.CorrelationId)
	})

	t.Run("nowhere to reply", func(t *testing.T) {
		pub := &fakePublisher{}
		require.NoError(t, Reply(pub, "", "", "", resp))
		assert.Empty(t, pub.published)
	})
}

func TestNewWorkerDefaults(t *testing.T) {
	w := NewWorker(Config{}, nil, nil)
	assert.Equal(t, DefaultQueue, w.cfg.Queue)
	assert.Equal(t, DefaultWorkers, w.cfg.Workers)
	assert.Equal(t, defaultPrefetch, w.cfg.Prefetch)

	assert.EqualError(t, w.Run(context.Background()), "amqp url is required")
}
