package pagination

type Pagination struct {
	Limit  int `form:"limit,default=50" validate:"gte=1,lte=250"` // Min 1, Max 250
	Offset int `form:"offset" validate:"gte=0"`
}
