package main

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"avatar-trainer-be/internal/model"
)

// SeedArchetypes populates the scenario archetype catalog. Upserts on slug id
// so reruns refresh the catalog in place.
func SeedArchetypes(db *gorm.DB) {
	archetypes := []model.Archetype{
		{
			Id:              "fees_dispute",
			Title:           "Спор о комиссии за перевод",
			Summary:         "Клиент недоволен списанной комиссией за перевод между банками.",
			Topics:          datatypes.JSON([]byte(`["комиссии","переводы"]`)),
			SampleQuestions: datatypes.JSON([]byte(`["Почему с меня списали комиссию за перевод?","А вернуть комиссию можно? Мне никто не говорил.","Где написано, что комиссия 1%?"]`)),
			Gotchas:         datatypes.JSON([]byte(`["Обещание возврата без проверки статуса перевода","Отсутствие ссылки на тариф"]`)),
			Outcomes:        datatypes.JSON([]byte(`["Клиент понимает правило комиссии 1% (min 50 ₽)","Согласован контроль возврата при неуспешном переводе"]`)),
		},
		{
			Id:              "card_blocked_call_v1",
			Title:           "Карта заблокирована на кассе",
			Summary:         "Оплата не проходит, клиент стоит в очереди и требует немедленной разблокировки.",
			Topics:          datatypes.JSON([]byte(`["антифрод","блокировка карты"]`)),
			SampleQuestions: datatypes.JSON([]byte(`["Почему карта могла заблокироваться? Там обычная сумма.","Сколько ждать проверки?","Вы точно разблокируете?"]`)),
			Gotchas:         datatypes.JSON([]byte(`["Обещание «точно разблокируем» без проверки","Запрос CVV или кода из СМС"]`)),
			Outcomes:        datatypes.JSON([]byte(`["Клиент идентифицирован через приложение","Названы конкретные шаги и срок проверки"]`)),
		},
		{
			Id:              "transfer_delayed",
			Title:           "Перевод завис",
			Summary:         "Деньги списаны, получателю не пришли, клиент подозревает потерю средств.",
			Topics:          datatypes.JSON([]byte(`["переводы","статус платежа"]`)),
			SampleQuestions: datatypes.JSON([]byte(`["Где мои деньги? Списали ещё утром.","Получатель ничего не видит, это нормально?","Когда вернутся деньги, если перевод не пройдёт?"]`)),
			Gotchas:         datatypes.JSON([]byte(`["Обещание точного времени зачисления на стороне другого банка","Отсутствие номера обращения"]`)),
			Outcomes:        datatypes.JSON([]byte(`["Клиент знает регламентный срок и номер обращения","Согласован канал уведомления о результате"]`)),
		},
		{
			Id:              "app_login_issue",
			Title:           "Не получается войти в приложение",
			Summary:         "Клиент не может войти после смены телефона и боится потерять доступ к счёту.",
			Topics:          datatypes.JSON([]byte(`["приложение","доступ"]`)),
			SampleQuestions: datatypes.JSON([]byte(`["Поменял телефон и теперь не могу войти, что делать?","Код подтверждения не приходит, это взлом?","Можно восстановить доступ прямо сейчас?"]`)),
			Gotchas:         datatypes.JSON([]byte(`["Запрос пароля или кода из СМС","Обещание мгновенного восстановления без идентификации"]`)),
			Outcomes:        datatypes.JSON([]byte(`["Названы безопасные шаги восстановления","Клиент успокоен и идентифицирован"]`)),
		},
	}

	for _, a := range archetypes {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&a).Error; err != nil {
			log.Printf("Warn: Failed to seed archetype %s: %v", a.Id, err)
		}
	}
	log.Printf("Seeded %d archetypes", len(archetypes))
}
