package domain

// Models returns every persisted model in migration order.
func Models() []any {
	return []any{
		&User{},
		&Role{},
		&UserRole{},
		&Program{},
		&ClassBatch{},
		&Application{},
		&Enrollment{},
		&StudentFinancialStatus{},
		&Notification{},
		&AuditLog{},
	}
}
