package flow

import "github.com/calmaflow/calma-bot/internal/domain"

// Message copy for the five-step script. Kept as data so handlers stay
// logic-only.
const (
	WelcomeText = "Привет! Я помогу подобрать короткую технику, чтобы стало полегче.\n\nЧто сейчас ощущается сильнее всего?"

	BridgeText = "Отлично, что попробовали 🙌\n\nА как часто вы сталкиваетесь с этим состоянием?"

	SoftOfferText = "Здорово, что такое случается редко! Чтобы это так и оставалось, можно разобрать ваши триггеры на короткой встрече с Марией."

	RegularOfferText = "Похоже, это состояние стало регулярным. На консультации Мария поможет найти его причину и собрать план, который подходит именно вам."

	BookedText = "Принято ✅ Мария свяжется с вами в ближайшее время, чтобы согласовать удобный слот."

	RetryText = "Что-то пошло не так 😔 Попробуйте ещё раз с команды /start."
)

var explanations = map[domain.Status]string{
	domain.StatusAnxiety: "Тревога — это реакция тела на неопределённость. Её можно заметно снизить за пару минут, переключив внимание на дыхание.",
	domain.StatusFatigue: "Усталость часто копится незаметно, когда нет пауз. Короткая осознанная остановка возвращает часть энергии.",
	domain.StatusTension: "Напряжение оседает в теле — в плечах, челюсти, животе. Снять его помогает простая телесная практика.",
}

var techniques = map[domain.Status]string{
	domain.StatusAnxiety: "Попробуйте прямо сейчас: вдох на 4 счёта, задержка на 4, выдох на 6. Повторите 5 кругов, не торопясь.\n\nКогда закончите — нажмите «Готово».",
	domain.StatusFatigue: "Попробуйте прямо сейчас: закройте глаза, сделайте 3 медленных вдоха и мысленно просканируйте тело от макушки до стоп.\n\nКогда закончите — нажмите «Готово».",
	domain.StatusTension: "Попробуйте прямо сейчас: сильно сожмите кулаки на 5 секунд и резко отпустите. Повторите 3 раза, отслеживая ощущения.\n\nКогда закончите — нажмите «Готово».",
}

// ExplanationFor returns the short explanation shown right after the user
// picks a state.
func ExplanationFor(status domain.Status) string {
	return explanations[status]
}

// TechniqueFor returns the coping technique instructions for the state.
func TechniqueFor(status domain.Status) string {
	return techniques[status]
}
