package infra

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "bizdash"
)

// Каналы Pub/Sub: принятые контракты рассылаются подписчикам дашборда
const (
	RedisChanContracts = RedisNamespace + ":contracts"
)

// ContractChannel возвращает канал для сущности: bizdash:contracts:agent
func ContractChannel(entity string) string {
	return RedisChanContracts + ":" + entity
}
