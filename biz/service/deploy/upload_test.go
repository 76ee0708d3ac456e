package deploy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yi-nology/page_harbor/biz/dal/model"
	"github.com/yi-nology/page_harbor/biz/service/deploy"
	"github.com/yi-nology/page_harbor/pkg/config"
)

func newTestService(store *fakeStorage, history *memHistory) *deploy.Service {
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.Storage.Type = "local"
	cfg.Deploy.NamingSalt = "secret"
	return deploy.NewService(store, history, cfg)
}

func TestDeployPartialFailureContinues(t *testing.T) {
	root := t.TempDir()
	writeSiteFile(t, root, "index.html", "<html></html>")
	writeSiteFile(t, root, "css/style.css", "body{}")
	writeSiteFile(t, root, "js/main.js", "console.log(1)")
	writeSiteFile(t, root, "about.html", "<html></html>")
	writeSiteFile(t, root, "img/logo.svg", "<svg/>")

	store := newFakeStorage()
	history := &memHistory{}
	svc := newTestService(store, history)

	prefix := deploy.ResolvePrefix("Acme", "secret")
	store.failKeys[prefix+"/css/style.css"] = true

	result, err := svc.Deploy(context.Background(), root, "Acme", model.TargetObjectStorage, "")
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if !result.Success {
		t.Error("expected Success=true despite one failed file")
	}
	if result.UploadedCount != 4 {
		t.Errorf("UploadedCount = %d, want 4", result.UploadedCount)
	}
	if result.FailedCount != 1 {
		t.Errorf("FailedCount = %d, want 1", result.FailedCount)
	}
	if result.DirName != prefix {
		t.Errorf("DirName = %q, want %q", result.DirName, prefix)
	}
	if len(store.putOrder) != 5 {
		t.Errorf("attempted %d puts, want 5: failure must not stop the batch", len(store.putOrder))
	}
	if store.prepared != 1 {
		t.Errorf("PrepareBatch called %d times, want exactly 1 per batch", store.prepared)
	}
	if _, ok := store.objects[prefix+"/css/style.css"]; ok {
		t.Error("failed file must not be stored")
	}
}

func TestDeployAllFilesFailedIsHardError(t *testing.T) {
	root := t.TempDir()
	writeSiteFile(t, root, "index.html", "<html></html>")
	writeSiteFile(t, root, "css/style.css", "body{}")

	store := newFakeStorage()
	store.failAll = true
	svc := newTestService(store, &memHistory{})

	_, err := svc.Deploy(context.Background(), root, "Acme", model.TargetObjectStorage, "")
	if !errors.Is(err, deploy.ErrNothingUploaded) {
		t.Fatalf("err = %v, want ErrNothingUploaded", err)
	}
}

func TestDeployEmptyDirSucceeds(t *testing.T) {
	root := t.TempDir()

	store := newFakeStorage()
	history := &memHistory{}
	svc := newTestService(store, history)

	result, err := svc.Deploy(context.Background(), root, "Acme", model.TargetObjectStorage, "")
	if err != nil {
		t.Fatalf("Deploy of empty dir: %v", err)
	}
	if result.UploadedCount != 0 || result.FailedCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", result.UploadedCount, result.FailedCount)
	}
	if len(history.records) != 1 {
		t.Errorf("history records = %d, want 1", len(history.records))
	}
}

func TestDeployReusesStoredPrefix(t *testing.T) {
	root := t.TempDir()
	writeSiteFile(t, root, "index.html", "v1")

	store := newFakeStorage()
	history := &memHistory{}
	svc := newTestService(store, history)

	first, err := svc.Deploy(context.Background(), root, "Acme", model.TargetObjectStorage, "")
	if err != nil {
		t.Fatalf("first Deploy: %v", err)
	}

	writeSiteFile(t, root, "index.html", "v2")
	second, err := svc.Deploy(context.Background(), root, "Acme", model.TargetObjectStorage, "")
	if err != nil {
		t.Fatalf("second Deploy: %v", err)
	}

	if first.DirName != second.DirName {
		t.Errorf("re-deploy changed prefix: %q then %q", first.DirName, second.DirName)
	}
	if len(history.records) != 1 {
		t.Errorf("history records = %d, want 1 (re-deploy updates in place)", len(history.records))
	}
	if got := string(store.objects[first.DirName+"/index.html"]); got != "v2" {
		t.Errorf("stored index.html = %q, want overwritten content %q", got, "v2")
	}
	if first.RecordID != second.RecordID {
		t.Errorf("record id changed on re-deploy: %q then %q", first.RecordID, second.RecordID)
	}
}

func TestDeployRecordOnlyTarget(t *testing.T) {
	store := newFakeStorage()
	history := &memHistory{}
	svc := newTestService(store, history)

	result, err := svc.Deploy(context.Background(), "", "Acme", model.TargetNone, `{"note":"manual"}`)
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if !result.Success || result.RecordID == "" {
		t.Errorf("result = %+v, want success with a record id", result)
	}
	if len(store.putOrder) != 0 {
		t.Error("record-only deploy must not touch storage")
	}
	if len(history.records) != 1 || history.records[0].Metadata != `{"note":"manual"}` {
		t.Errorf("history records = %+v, want one with metadata preserved", history.records)
	}
}

func TestDeployRejectsUnknownTarget(t *testing.T) {
	svc := newTestService(newFakeStorage(), &memHistory{})

	_, err := svc.Deploy(context.Background(), "", "Acme", "ftp", "")
	if !errors.Is(err, deploy.ErrInvalidTarget) {
		t.Fatalf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestDeployRequiresLogicalName(t *testing.T) {
	svc := newTestService(newFakeStorage(), &memHistory{})

	if _, err := svc.Deploy(context.Background(), "", "", model.TargetNone, ""); err == nil {
		t.Fatal("expected error for empty logical name")
	}
}
