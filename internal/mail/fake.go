package mail

import "context"

// FakeClient records sends in memory. Test-only.
type FakeClient struct {
	Sent []FakeSend
	Err  error
}

type FakeSend struct {
	ToEmail   string
	ToName    string
	SetupLink string
}

func (f *FakeClient) SendPasswordSetup(_ context.Context, toEmail, toName, setupLink string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, FakeSend{ToEmail: toEmail, ToName: toName, SetupLink: setupLink})
	return nil
}
