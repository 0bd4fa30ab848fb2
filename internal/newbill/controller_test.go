package newbill

import (
	"context"
	"errors"
	"testing"

	"github.com/billed-app/billed-portal/internal/draft"
	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/routes"
	"github.com/billed-app/billed-portal/internal/session"
	"github.com/billed-app/billed-portal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Fake store collaborator
type fakeBillsService struct {
	createCalls []store.CreateRequest
	updateCalls []string
	updated     []entity.Bill

	createFunc func(ctx context.Context, req store.CreateRequest) (*store.CreateResponse, error)
	updateFunc func(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error)
}

func (f *fakeBillsService) Create(ctx context.Context, req store.CreateRequest) (*store.CreateResponse, error) {
	f.createCalls = append(f.createCalls, req)
	if f.createFunc != nil {
		return f.createFunc(ctx, req)
	}
	return &store.CreateResponse{FileURL: "/receipts/stored.png", Key: "1234"}, nil
}

func (f *fakeBillsService) Update(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error) {
	f.updateCalls = append(f.updateCalls, id)
	f.updated = append(f.updated, *bill)
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, bill)
	}
	return bill, nil
}

func (f *fakeBillsService) List(ctx context.Context) ([]entity.Bill, error) {
	return []entity.Bill{}, nil
}

type fakeStore struct {
	bills *fakeBillsService
}

func (f *fakeStore) Bills() store.BillsService { return f.bills }

func newTestController(st store.Store) (*Controller, *[]string) {
	var navigated []string
	c := NewController(st, func(path string) { navigated = append(navigated, path) },
		session.User{Type: session.UserTypeEmployee, Email: "employee@test.com"},
		zap.NewNop())
	return c, &navigated
}

func selection(name string) *FileInput {
	return &FileInput{
		Value: "C:\\fakepath\\" + name,
		File: store.FileSelection{
			Name:        name,
			ContentType: "image/png",
			Content:     []byte("content"),
		},
	}
}

func TestHandleChangeFile_AcceptedExtensions(t *testing.T) {
	for _, name := range []string{"hello.png", "hello.jpg", "hello.jpeg", "HELLO.PNG", "scan.Jpeg"} {
		t.Run(name, func(t *testing.T) {
			st := &fakeStore{bills: &fakeBillsService{}}
			c, _ := newTestController(st)

			input := selection(name)
			c.HandleChangeFile(context.Background(), input)

			assert.NotEmpty(t, input.Value, "field stays populated")
			require.Len(t, st.bills.createCalls, 1, "upload path called exactly once")
			assert.Equal(t, draft.StateFileValidated, c.State())

			require.NotNil(t, c.FileURL())
			require.NotNil(t, c.FileName())
			assert.Equal(t, "/receipts/stored.png", *c.FileURL())
			assert.Equal(t, name, *c.FileName())

			upload := st.bills.createCalls[0]
			require.NotNil(t, upload.File)
			assert.Equal(t, name, upload.File.Name)
			assert.Equal(t, "employee@test.com", upload.Email)
		})
	}
}

func TestHandleChangeFile_RejectedExtensions(t *testing.T) {
	for _, name := range []string{"hello.pdf", "hello.gif", "hello.txt", "hello", "hello.png.exe"} {
		t.Run(name, func(t *testing.T) {
			st := &fakeStore{bills: &fakeBillsService{}}
			c, _ := newTestController(st)

			input := selection(name)
			c.HandleChangeFile(context.Background(), input)

			assert.Equal(t, "", input.Value, "field value cleared")
			assert.Nil(t, c.FileURL())
			assert.Nil(t, c.FileName())
			assert.Empty(t, st.bills.createCalls, "no upload call")
			assert.Equal(t, draft.StateFileRejected, c.State())
		})
	}
}

func TestHandleChangeFile_RejectionResetsPreviousUpload(t *testing.T) {
	st := &fakeStore{bills: &fakeBillsService{}}
	c, _ := newTestController(st)

	c.HandleChangeFile(context.Background(), selection("first.png"))
	require.NotNil(t, c.FileURL())

	c.HandleChangeFile(context.Background(), selection("second.pdf"))
	assert.Nil(t, c.FileURL())
	assert.Nil(t, c.FileName())
}

func TestHandleChangeFile_UploadFailureIsSwallowed(t *testing.T) {
	st := &fakeStore{bills: &fakeBillsService{
		createFunc: func(ctx context.Context, req store.CreateRequest) (*store.CreateResponse, error) {
			return nil, errors.New("network down")
		},
	}}
	c, _ := newTestController(st)

	c.HandleChangeFile(context.Background(), selection("hello.png"))

	// Draft left unfilled, user can retry by re-selecting.
	assert.Nil(t, c.FileURL())
	assert.Nil(t, c.FileName())

	st.bills.createFunc = nil
	c.HandleChangeFile(context.Background(), selection("hello.png"))
	assert.NotNil(t, c.FileURL())
}

func TestHandleSubmit_BuildsExactCandidate(t *testing.T) {
	st := &fakeStore{bills: &fakeBillsService{}}
	c, _ := newTestController(st)

	fileURL := "https://www.test.test"
	fileName := "test.test"
	c.billID = "47qAXb6fIm2zOKkLzMro"
	c.fileURL = &fileURL
	c.fileName = &fileName

	preventCalls := 0
	c.HandleSubmit(context.Background(), &SubmitEvent{
		PreventDefault: func() { preventCalls++ },
		Form: BillForm{
			Type:       "Transports",
			Name:       "test bill",
			Amount:     "100",
			Date:       "2021-06-07",
			VAT:        "",
			Pct:        "20",
			Commentary: "test commentary",
		},
	})
	c.Wait()

	assert.Equal(t, 1, preventCalls, "preventDefault called exactly once")
	require.Len(t, st.bills.updateCalls, 1, "update called exactly once")
	assert.Empty(t, st.bills.createCalls)

	got := st.bills.updated[0]
	assert.Equal(t, entity.Bill{
		Email:      "employee@test.com",
		Type:       "Transports",
		Name:       "test bill",
		Amount:     100,
		Date:       "2021-06-07",
		VAT:        "",
		Pct:        20,
		Commentary: "test commentary",
		FileURL:    &fileURL,
		FileName:   &fileName,
		Status:     entity.StatusPending,
	}, got)
}

func TestHandleSubmit_NavigatesRegardlessOfStoreOutcome(t *testing.T) {
	tests := []struct {
		name       string
		updateFunc func(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error)
	}{
		{"store succeeds", nil},
		{"store fails", func(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error) {
			return nil, errors.New("boom")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{bills: &fakeBillsService{updateFunc: tt.updateFunc}}
			c, navigated := newTestController(st)
			c.billID = "1234"

			c.HandleSubmit(context.Background(), &SubmitEvent{
				PreventDefault: func() {},
				Form:           BillForm{Type: "Transports", Amount: "10", Pct: "20"},
			})
			c.Wait()

			require.Len(t, st.bills.updateCalls, 1)
			assert.Equal(t, []string{routes.Bills}, *navigated)
			assert.Equal(t, draft.StateSubmitted, c.State())
		})
	}
}

func TestHandleSubmit_WithoutPriorUploadCreates(t *testing.T) {
	st := &fakeStore{bills: &fakeBillsService{}}
	c, navigated := newTestController(st)

	c.HandleSubmit(context.Background(), &SubmitEvent{
		PreventDefault: func() {},
		Form:           BillForm{Type: "Restaurants et bars", Amount: "55", Pct: "10"},
	})
	c.Wait()

	require.Len(t, st.bills.createCalls, 1)
	assert.Empty(t, st.bills.updateCalls)

	created := st.bills.createCalls[0]
	assert.Nil(t, created.File)
	assert.Equal(t, "employee@test.com", created.Email)
	require.NotNil(t, created.Bill)
	// No validated upload: both file fields are the null sentinel, and the
	// submission is still permitted.
	assert.Nil(t, created.Bill.FileURL)
	assert.Nil(t, created.Bill.FileName)
	assert.Equal(t, []string{routes.Bills}, *navigated)
}

func TestHandleSubmit_PctDefaultsTo20(t *testing.T) {
	for _, pct := range []string{"", "abc"} {
		st := &fakeStore{bills: &fakeBillsService{}}
		c, _ := newTestController(st)
		c.billID = "1234"

		c.HandleSubmit(context.Background(), &SubmitEvent{
			PreventDefault: func() {},
			Form:           BillForm{Type: "Transports", Amount: "100", Pct: pct},
		})
		c.Wait()

		require.Len(t, st.bills.updated, 1)
		assert.Equal(t, 20, st.bills.updated[0].Pct, "pct %q", pct)
	}
}

func TestHandleSubmit_WithoutStoreStillNavigates(t *testing.T) {
	c, navigated := newTestController(nil)

	c.HandleSubmit(context.Background(), &SubmitEvent{
		PreventDefault: func() {},
		Form:           BillForm{Type: "Transports", Amount: "100", Pct: "20"},
	})

	assert.Equal(t, []string{routes.Bills}, *navigated)
}

func TestUploadThenSubmit_SingleCreateCarriesFileAndEmail(t *testing.T) {
	st := &fakeStore{bills: &fakeBillsService{}}
	c, _ := newTestController(st)

	c.HandleChangeFile(context.Background(), selection("receipt.jpg"))
	c.HandleSubmit(context.Background(), &SubmitEvent{
		PreventDefault: func() {},
		Form:           BillForm{Type: "Transports", Amount: "100", Pct: "20"},
	})
	c.Wait()

	require.Len(t, st.bills.createCalls, 1, "exactly one create for the whole flow")
	create := st.bills.createCalls[0]
	require.NotNil(t, create.File)
	assert.Equal(t, "receipt.jpg", create.File.Name)
	assert.Equal(t, "employee@test.com", create.Email)

	// The submit itself goes through update with the key from the upload.
	require.Len(t, st.bills.updateCalls, 1)
	assert.Equal(t, "1234", st.bills.updateCalls[0])
}

func TestHandleSubmit_SecondSubmitIgnored(t *testing.T) {
	st := &fakeStore{bills: &fakeBillsService{}}
	c, navigated := newTestController(st)
	c.billID = "1234"

	ev := &SubmitEvent{
		PreventDefault: func() {},
		Form:           BillForm{Type: "Transports", Amount: "100", Pct: "20"},
	}
	c.HandleSubmit(context.Background(), ev)
	c.HandleSubmit(context.Background(), ev)
	c.Wait()

	assert.Len(t, st.bills.updateCalls, 1)
	assert.Equal(t, []string{routes.Bills}, *navigated)
}
