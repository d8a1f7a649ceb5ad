package service

import (
	"mindora.app/gateway/common/llm"
	"mindora.app/gateway/internal/mailer"
	"mindora.app/gateway/internal/objectstore"
	"mindora.app/gateway/internal/store"
)

// ServicesConfig carries the collaborators built at startup. Any of them may
// be nil when its configuration is absent.
type ServicesConfig struct {
	Users     store.UserStore
	Mailer    mailer.Mailer
	Completer llm.Completer
	Uploader  objectstore.Uploader
	Contact   ContactConfig
	Upload    UploadConfig
}

type Services struct {
	cfg ServicesConfig
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{cfg: cfg}
}

func (s *Services) Contact() ContactService {
	return NewContactService(s.cfg.Users, s.cfg.Mailer, s.cfg.Contact)
}

func (s *Services) Ask() AskService {
	return NewAskService(s.cfg.Completer)
}

func (s *Services) Upload() UploadService {
	return NewUploadService(s.cfg.Uploader, s.cfg.Upload)
}
