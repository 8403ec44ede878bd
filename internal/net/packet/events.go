package packet

// Client → server events.
const (
	C_JOIN          = "join"
	C_MOVE          = "move"
	C_UPDATE_STATS  = "updateStats"
	C_UPDATE_HP     = "updateHp"
	C_ATTACK        = "attack"
	C_ITEM_DROP     = "itemDropRequest"
	C_ADMIN_COMMAND = "adminCommand"
	C_RESPAWN       = "respawn"
	C_PICKUP_ITEM   = "pickupItem"
)

// Server → client events.
const (
	S_CURRENT_PLAYERS     = "currentPlayers"
	S_CURRENT_MONSTERS    = "currentMonsters"
	S_CURRENT_ITEMS       = "currentItems"
	S_NEW_PLAYER          = "newPlayer"
	S_PLAYER_MOVED        = "playerMoved"
	S_PLAYER_DISCONNECTED = "playerDisconnected"
	S_MONSTER_UPDATE      = "monsterUpdate"
	S_MONSTER_DAMAGED     = "monsterDamaged"
	S_MONSTER_DEAD        = "monsterDead"
	S_PLAYER_DAMAGED      = "playerDamaged"
	S_PLAYER_DEAD         = "playerDead"
	S_PLAYER_RESPAWN      = "playerRespawn"
	S_ITEM_DROPPED        = "itemDropped"
	S_ITEM_PICKED         = "itemPicked"
	S_ITEMS_CLEARED       = "itemsCleared"
	S_ITEM_EXPIRED        = "itemExpired"
	S_INVENTORY_ADD       = "inventoryAdd"
	S_AUTO_LOOT           = "autoLoot"
)
