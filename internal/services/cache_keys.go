package services

const ClientListCacheKey = "clients:all"

func ClientCacheKey(id string) string {
	return "client:" + id
}

func deleteTokenKey(token string) string {
	return "delete:" + token
}
