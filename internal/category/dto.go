package category

type CreateCategoryDTO struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"max=255"`
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
