// Package testutil holds testify mocks and fixtures shared by the pipeline,
// handler and command tests.
//
// MockTranscriber and MockGenerator follow the usual mock.Mock pattern:
//
//	tr := testutil.NewMockTranscriber(t)
//	tr.On("Transcribe", mock.Anything, mock.Anything, "en").Return("i goed to school", nil)
//
// Expectations are asserted automatically when the test ends.
package testutil
