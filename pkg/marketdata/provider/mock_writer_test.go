package provider

import (
	"github.com/rxtech-lab/argo-medallion/internal/types"
)

// mockWriter records every call so tests can assert the writer lifecycle.
type mockWriter struct {
	outputPath     string
	initializeErr  error
	writeErr       error
	finalizeErr    error
	closeErr       error
	initialized    bool
	finalized      bool
	writtenData    []types.Bar
	writeCallCount int
	closeCallCount int
}

func (m *mockWriter) Initialize() error {
	if m.initializeErr != nil {
		return m.initializeErr
	}

	m.initialized = true

	return nil
}

func (m *mockWriter) Write(data types.Bar) error {
	m.writeCallCount++
	if m.writeErr != nil {
		return m.writeErr
	}

	m.writtenData = append(m.writtenData, data)

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	if m.finalizeErr != nil {
		return "", m.finalizeErr
	}

	m.finalized = true

	return m.outputPath, nil
}

func (m *mockWriter) Close() error {
	m.closeCallCount++

	return m.closeErr
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}

func (m *mockWriter) Rows() int {
	return len(m.writtenData)
}
