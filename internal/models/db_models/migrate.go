package db_models

// All lists every table the service owns, in migration order.
func All() []interface{} {
	return []interface{}{
		&LearningPlan{},
		&Avatar{},
		&Wishlist{},
		&Feedback{},
		&PartnerInterest{},
	}
}
