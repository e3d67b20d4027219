package llm

import "context"

// MockClient records calls and returns a configured response. Test use only.
type MockClient struct {
	Response string
	Err      error
	Calls    []*Request
}

func (m *MockClient) Complete(_ context.Context, req *Request) (string, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
