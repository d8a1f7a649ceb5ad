package store

type Stores struct {
	db DBTX
}

func NewStores(db DBTX) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}
